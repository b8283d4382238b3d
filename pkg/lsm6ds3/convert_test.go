package lsm6ds3

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestInt16FromBytesLE(t *testing.T) {
	t.Run("MinValue", func(t *testing.T) {
		if got := Int16FromBytesLE([]byte{0x00, 0x80}); got != math.MinInt16 {
			t.Errorf("expected %d, got %d", math.MinInt16, got)
		}
	})

	t.Run("MaxValue", func(t *testing.T) {
		if got := Int16FromBytesLE([]byte{0xFF, 0x7F}); got != math.MaxInt16 {
			t.Errorf("expected %d, got %d", math.MaxInt16, got)
		}
	})

	t.Run("MinusOne", func(t *testing.T) {
		if got := Int16FromBytesLE([]byte{0xFF, 0xFF}); got != -1 {
			t.Errorf("expected -1, got %d", got)
		}
	})

	t.Run("LowByteFirst", func(t *testing.T) {
		if got := Int16FromBytesLE([]byte{0x34, 0x12}); got != 0x1234 {
			t.Errorf("expected 0x1234, got 0x%04X", got)
		}
	})
}

var accelConverters = map[AccelScale]func(int16) float64{
	AccelScale2g:  FromFs2gToMg,
	AccelScale4g:  FromFs4gToMg,
	AccelScale8g:  FromFs8gToMg,
	AccelScale16g: FromFs16gToMg,
}

var gyroConverters = map[GyroScale]func(int16) float64{
	GyroScale125dps:  FromFs125dpsToMdps,
	GyroScale245dps:  FromFs245dpsToMdps,
	GyroScale500dps:  FromFs500dpsToMdps,
	GyroScale1000dps: FromFs1000dpsToMdps,
	GyroScale2000dps: FromFs2000dpsToMdps,
}

func TestConverterLinearity(t *testing.T) {
	inputs := []int16{1, 7, -3, 1000, -16384, 16383}

	for fs, fn := range accelConverters {
		t.Run(fs.String(), func(t *testing.T) {
			if fn(0) != 0 {
				t.Errorf("expected 0 for 0 LSB, got %f", fn(0))
			}
			for _, x := range inputs {
				if fn(2*x) != 2*fn(x) {
					t.Errorf("f(2*%d)=%f, 2*f(%d)=%f", x, fn(2*x), x, 2*fn(x))
				}
			}
		})
	}

	for fs, fn := range gyroConverters {
		t.Run(fs.String(), func(t *testing.T) {
			if fn(0) != 0 {
				t.Errorf("expected 0 for 0 LSB, got %f", fn(0))
			}
			for _, x := range inputs {
				if fn(2*x) != 2*fn(x) {
					t.Errorf("f(2*%d)=%f, 2*f(%d)=%f", x, fn(2*x), x, 2*fn(x))
				}
			}
		})
	}
}

func TestConverterSensitivityTable(t *testing.T) {
	for fs, fn := range accelConverters {
		sens, err := fs.Sensitivity()
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if fn(1) != sens {
			t.Errorf("%s: expected %f mg/LSB, got %f", fs, sens, fn(1))
		}
		generic, err := AccelToMg(1234, fs)
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if generic != fn(1234) {
			t.Errorf("%s: AccelToMg %f != %f", fs, generic, fn(1234))
		}
	}

	for fs, fn := range gyroConverters {
		sens, err := fs.Sensitivity()
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if fn(1) != sens {
			t.Errorf("%s: expected %f mdps/LSB, got %f", fs, sens, fn(1))
		}
		generic, err := GyroToMdps(-1234, fs)
		if err != nil {
			t.Fatalf("%s: %v", fs, err)
		}
		if generic != fn(-1234) {
			t.Errorf("%s: GyroToMdps %f != %f", fs, generic, fn(-1234))
		}
	}
}

func TestFs2gHalfScale(t *testing.T) {
	// 16384 LSB is half of the positive range; at 0.061 mg/LSB that is 999.424 mg.
	want := 16384 * 0.061
	if got := FromFs2gToMg(16384); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if math.Abs(FromFs2gToMg(16384)-999.424) > 1e-9 {
		t.Errorf("expected ~999.424 mg, got %v", FromFs2gToMg(16384))
	}
}

func TestFromLSBToCelsius(t *testing.T) {
	if got := FromLSBToCelsius(0); got != 25.0 {
		t.Errorf("expected 25.0, got %f", got)
	}
	if got := FromLSBToCelsius(16); got != 26.0 {
		t.Errorf("expected 26.0, got %f", got)
	}
	if got := FromLSBToCelsius(-16); got != 24.0 {
		t.Errorf("expected 24.0, got %f", got)
	}
	for _, lsb := range []int16{math.MinInt16, -1, 1, math.MaxInt16 - 1} {
		if d := FromLSBToCelsius(lsb+1) - FromLSBToCelsius(lsb); d != 1.0/16 {
			t.Errorf("step at %d: expected 0.0625, got %f", lsb, d)
		}
	}
}

func TestConvertExtremesAreFinite(t *testing.T) {
	for _, v := range []int16{math.MinInt16, math.MaxInt16} {
		for fs, fn := range accelConverters {
			if r := fn(v); math.IsNaN(r) || math.IsInf(r, 0) {
				t.Errorf("%s(%d) = %f", fs, v, r)
			}
		}
		for fs, fn := range gyroConverters {
			if r := fn(v); math.IsNaN(r) || math.IsInf(r, 0) {
				t.Errorf("%s(%d) = %f", fs, v, r)
			}
		}
		if r := FromLSBToCelsius(v); math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("celsius(%d) = %f", v, r)
		}
	}
}

func TestConvert(t *testing.T) {
	s := DefaultSettings()

	t.Run("Accel", func(t *testing.T) {
		smp, err := Convert(Raw{Channel: Accel, Data: [3]int16{16384, -16384, 0}}, s)
		if err != nil {
			t.Fatal(err)
		}
		want := [3]float64{FromFs2gToMg(16384), FromFs2gToMg(-16384), 0}
		if smp.Value != want {
			t.Errorf("expected %v, got %v", want, smp.Value)
		}
		if len(smp.Values()) != 3 {
			t.Errorf("expected 3 values, got %d", len(smp.Values()))
		}
	})

	t.Run("Gyro", func(t *testing.T) {
		smp, err := Convert(Raw{Channel: Gyro, Data: [3]int16{1, 2, -3}}, s)
		if err != nil {
			t.Fatal(err)
		}
		want := [3]float64{70, 140, -210}
		if smp.Value != want {
			t.Errorf("expected %v, got %v", want, smp.Value)
		}
	})

	t.Run("Temp", func(t *testing.T) {
		smp, err := Convert(Raw{Channel: Temp, Data: [3]int16{32}}, s)
		if err != nil {
			t.Fatal(err)
		}
		if got := smp.Values(); len(got) != 1 || got[0] != 27.0 {
			t.Errorf("expected [27], got %v", got)
		}
	})

	t.Run("UnsupportedScale", func(t *testing.T) {
		bad := s
		bad.AccelScale = AccelScale(9)
		_, err := Convert(Raw{Channel: Accel}, bad)
		if !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("expected ErrUnsupportedSetting, got %v", err)
		}
		if _, err = AccelToMg(1, AccelScale(9)); !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("expected ErrUnsupportedSetting, got %v", err)
		}
		if _, err = GyroToMdps(1, GyroScale(9)); !errors.Is(err, ErrUnsupportedSetting) {
			t.Errorf("expected ErrUnsupportedSetting, got %v", err)
		}
	})

	t.Run("InvalidChannel", func(t *testing.T) {
		if _, err := Convert(Raw{Channel: Channel(7)}, s); err == nil {
			t.Error("expected error for invalid channel")
		}
	})
}
