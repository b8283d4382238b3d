package ft232h

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		serial     string
		wantErr    bool
		wantIndex  string
		wantSerial string
	}{
		{"Index", 0, "", false, "0", ""},
		{"IndexFive", 5, "", false, "5", ""},
		{"SerialWins", 3, "FT123456", false, "", "FT123456"},
		{"NegativeIndex", -1, "", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := Select(tt.index, tt.serial)
			err := desc.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrBadDescriptor) {
					t.Errorf("expected ErrBadDescriptor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			m := desc.mask()
			if m.Index != tt.wantIndex || m.Serial != tt.wantSerial {
				t.Errorf("expected mask index %q serial %q, got index %q serial %q",
					tt.wantIndex, tt.wantSerial, m.Index, m.Serial)
			}
		})
	}
}

func TestConnectRejectsBadInput(t *testing.T) {
	if _, err := Connect(Select(0, ""), Select(1, "")); err == nil {
		t.Error("expected error for two descriptors")
	}
	if _, err := Connect(Select(-1, "")); !errors.Is(err, ErrBadDescriptor) {
		t.Errorf("expected ErrBadDescriptor, got %v", err)
	}
}

func TestSetCSWithoutPin(t *testing.T) {
	ft := &FT232H{}
	if err := ft.SetCS(true); !errors.Is(err, ErrCSPinNotSet) {
		t.Errorf("expected ErrCSPinNotSet, got %v", err)
	}
}

func testConnect(t *testing.T, desc *Descriptor, validMask bool) *FT232H {
	t.Helper()

	var (
		ftdi *FT232H
		err  error
	)

	if validMask {
		if desc == nil {
			t.Fatalf("descriptor is nil")
		}
		if err = desc.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if desc == nil {
		ftdi, err = Connect()
	} else {
		ftdi, err = Connect(*desc)
	}

	if err != nil {
		t.Fatalf("failed to connect to FT232H: %v", err)
	}

	t.Logf("connected to FT232H: %s", ftdi.Info())

	return ftdi
}

func TestConnect(t *testing.T) {
	if os.Getenv("TEST_FT232H") == "" {
		t.Skip("set 'TEST_FT232H' in environment to run this test")
	}

	ftdi := testConnect(t, nil, false)
	testInfo := ftdi.Info()
	if err := ftdi.Close(); err != nil {
		t.Errorf("failed to close FT232H: %v", err)
	}

	t.Run("ByIndex", func(t *testing.T) {
		desc := Select(0, "")
		if os.Getenv("TEST_FT232H_INDEX") != "" {
			idx, err := strconv.Atoi(strings.TrimSpace(os.Getenv("TEST_FT232H_INDEX")))
			if err != nil {
				t.Fatalf(
					"bad 'TEST_FT232H_INDEX' environment variable: %v\nvalue: %s",
					err, os.Getenv("TEST_FT232H_INDEX"),
				)
			}
			desc = Select(idx, "")
		}

		if err := testConnect(t, &desc, true).Close(); err != nil {
			t.Errorf("failed to close FT232H: %v", err)
		}
	})

	t.Run("BySerial", func(t *testing.T) {
		serial := strings.TrimSpace(os.Getenv("TEST_FT232H_SERIAL"))
		if serial == "" {
			serial = testInfo.Serial
		}
		if serial == "" {
			t.Skip("no serial number provided, try setting 'TEST_FT232H_SERIAL' in environment")
		}

		desc := Select(-1, serial)

		if err := testConnect(t, &desc, true).Close(); err != nil {
			t.Errorf("failed to close FT232H: %v", err)
		}
	})
}

func TestWhoAmI(t *testing.T) {
	if os.Getenv("TEST_FT232H_LSM6DS3") == "" {
		t.Skip("set 'TEST_FT232H_LSM6DS3' in environment to run this test against a wired sensor")
	}

	ftdi := testConnect(t, nil, false)
	defer func() {
		if err := ftdi.Close(); err != nil {
			t.Errorf("failed to close FT232H: %v", err)
		}
	}()

	if err := ftdi.ConfigureSPI(DefaultSPIConfig()); err != nil {
		t.Fatalf("failed to configure SPI: %v", err)
	}

	dev := lsm6ds3.NewDevice(lsm6ds3.NewSPITransport(ftdi))
	id, err := dev.Identify()
	if err != nil {
		t.Fatalf("failed to read WHO_AM_I: %v", err)
	}
	if id != lsm6ds3.DeviceID {
		t.Errorf("expected 0x%02X, got 0x%02X", lsm6ds3.DeviceID, id)
	}
}
