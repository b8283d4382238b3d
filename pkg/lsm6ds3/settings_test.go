package lsm6ds3

import (
	"testing"

	"github.com/pkg/errors"
)

func TestAccelScaleCodes(t *testing.T) {
	want := map[AccelScale]byte{
		AccelScale2g:  0b00,
		AccelScale16g: 0b01,
		AccelScale4g:  0b10,
		AccelScale8g:  0b11,
	}
	for fs, code := range want {
		got, err := fs.Code()
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if got != code {
			t.Errorf("%s: expected code %02b, got %02b", fs, code, got)
		}
		back, err := DecodeAccelScale(got)
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if back != fs {
			t.Errorf("decode(%02b): expected %s, got %s", got, fs, back)
		}
	}
}

func TestGyroScaleCodes(t *testing.T) {
	want := map[GyroScale]byte{
		GyroScale245dps:  0b000,
		GyroScale125dps:  0b001,
		GyroScale500dps:  0b010,
		GyroScale1000dps: 0b100,
		GyroScale2000dps: 0b110,
	}
	for fs, code := range want {
		got, err := fs.Code()
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if got != code {
			t.Errorf("%s: expected code %03b, got %03b", fs, code, got)
		}
		back, err := DecodeGyroScale(got)
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if back != fs {
			t.Errorf("decode(%03b): expected %s, got %s", got, fs, back)
		}
	}

	// codes with FS_125 set on top of a non-245 range are not valid
	for _, code := range []byte{0b011, 0b101, 0b111} {
		if _, err := DecodeGyroScale(code); !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("decode(%03b): expected ErrUnsupportedSetting, got %v", code, err)
		}
	}
}

func TestUnsupportedSettings(t *testing.T) {
	cases := map[string]error{
		"AccelScale": func() error { _, err := AccelScale(4).Code(); return err }(),
		"GyroScale":  func() error { _, err := GyroScale(5).Code(); return err }(),
		"AccelRate":  func() error { _, err := AccelRate(11).Code(); return err }(),
		"GyroRate":   func() error { _, err := GyroRate(9).Code(); return err }(),
		"AccelSens":  func() error { _, err := AccelScale(200).Sensitivity(); return err }(),
		"GyroSens":   func() error { _, err := GyroScale(200).Sensitivity(); return err }(),
	}
	for name, err := range cases {
		t.Run(name, func(t *testing.T) {
			if !errors.Is(err, ErrUnsupportedSetting) {
				t.Errorf("expected ErrUnsupportedSetting, got %v", err)
			}
			var use *UnsupportedSettingError
			if !errors.As(err, &use) {
				t.Fatalf("expected *UnsupportedSettingError, got %T", err)
			}
			if use.Kind == "" || use.Value == "" {
				t.Errorf("expected kind and value to be set: %+v", use)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	s := DefaultSettings()
	s.GyroRate = GyroRate(12)
	if err := s.Validate(); !errors.Is(err, ErrUnsupportedSetting) {
		t.Errorf("expected ErrUnsupportedSetting, got %v", err)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.AccelScale != AccelScale2g || s.GyroScale != GyroScale2000dps {
		t.Errorf("unexpected scales: %s", s)
	}
	if s.AccelRate != AccelRate12Hz5 || s.GyroRate != GyroRate12Hz5 {
		t.Errorf("unexpected rates: %s", s)
	}
	if !s.BlockDataUpdate {
		t.Error("expected BDU enabled")
	}
}

func TestParseSettings(t *testing.T) {
	t.Run("AccelScale", func(t *testing.T) {
		for in, want := range map[string]AccelScale{
			"2g": AccelScale2g, "±4g": AccelScale4g, " 8G ": AccelScale8g, "+-16g": AccelScale16g,
		} {
			got, err := ParseAccelScale(in)
			if err != nil {
				t.Fatalf("%q: %v", in, err)
			}
			if got != want {
				t.Errorf("%q: expected %s, got %s", in, want, got)
			}
		}
		if _, err := ParseAccelScale("3g"); !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("expected ErrUnsupportedSetting, got %v", err)
		}
	})

	t.Run("GyroScale", func(t *testing.T) {
		for in, want := range map[string]GyroScale{
			"125dps": GyroScale125dps, "245": GyroScale245dps, "±2000dps": GyroScale2000dps,
		} {
			got, err := ParseGyroScale(in)
			if err != nil {
				t.Fatalf("%q: %v", in, err)
			}
			if got != want {
				t.Errorf("%q: expected %s, got %s", in, want, got)
			}
		}
		if _, err := ParseGyroScale("250dps"); !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("expected ErrUnsupportedSetting, got %v", err)
		}
	})

	t.Run("Rates", func(t *testing.T) {
		ar, err := ParseAccelRate("12.5Hz")
		if err != nil || ar != AccelRate12Hz5 {
			t.Errorf("expected 12.5Hz, got %s (%v)", ar, err)
		}
		ar, err = ParseAccelRate("6.66khz")
		if err != nil || ar != AccelRate6k66Hz {
			t.Errorf("expected 6.66kHz, got %s (%v)", ar, err)
		}
		gr, err := ParseGyroRate("off")
		if err != nil || gr != GyroRateOff {
			t.Errorf("expected off, got %s (%v)", gr, err)
		}
		gr, err = ParseGyroRate("104")
		if err != nil || gr != GyroRate104Hz {
			t.Errorf("expected 104Hz, got %s (%v)", gr, err)
		}
		// the gyroscope tops out at 1.66kHz
		if _, err = ParseGyroRate("3.33kHz"); !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("expected ErrUnsupportedSetting, got %v", err)
		}
	})
}
