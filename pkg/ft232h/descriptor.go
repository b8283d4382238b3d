package ft232h

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"
)

// ErrBadDescriptor is returned when a Descriptor selects no device.
var ErrBadDescriptor = errors.New("invalid FT232H descriptor provided")

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String returns a string representation of the device information.
func (ft DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		ft.Index, ft.Serial, ft.Description, ft.ProductID, ft.VendorID, ft.IsOpen, ft.IsHighSpeed,
	)
}

// FT232H is an FT232H bridge driving one sensor over MPSSE SPI, with chip
// select on a GPIO pin of the C bank.
type FT232H struct {
	*ft232h.FT232H
	info DeviceInfo

	csPin ft232h.CPin
	csSet bool

	log zerolog.Logger
}

func (ft *FT232H) vidPid() (vid string, pid string) {
	return fmt.Sprintf("%04x", ft.VID()), fmt.Sprintf("%04x", ft.PID())
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String includes the vendor ID, product ID, and description.
func (ft *FT232H) String() string {
	info := ft.Info()
	return fmt.Sprintf("FT232H[%s:%s]: %s", info.VendorID, info.ProductID, ft.Desc())
}

// SetLogger sets the logger pin and bus setup is reported to.
func (ft *FT232H) SetLogger(log zerolog.Logger) {
	ft.log = log
}

// Descriptor picks one FT232H out of those attached. A non-empty Serial wins
// over Index; a negative Index with no Serial matches nothing.
type Descriptor struct {
	Index  int
	Serial string
}

// Select returns the Descriptor for a config entry: by serial when one is
// given, otherwise by enumeration index.
func Select(index int, serial string) Descriptor {
	if serial != "" {
		return Descriptor{Index: -1, Serial: serial}
	}
	return Descriptor{Index: index}
}

// Validate fails with ErrBadDescriptor when ftd cannot match a device.
func (ftd Descriptor) Validate() error {
	if ftd.Index < 0 && ftd.Serial == "" {
		return errors.Wrapf(ErrBadDescriptor, "%s", ftd)
	}
	return nil
}

// mask converts ftd to the library's device filter.
func (ftd Descriptor) mask() *ft232h.Mask {
	m := new(ft232h.Mask)
	switch {
	case ftd.Serial != "":
		m.Serial = ftd.Serial
	case ftd.Index >= 0:
		m.Index = strconv.Itoa(ftd.Index)
	}
	return m
}

func (ftd Descriptor) String() string {
	if ftd.Serial != "" {
		return "serial " + ftd.Serial
	}
	return "index " + strconv.Itoa(ftd.Index)
}

// Connect opens the first FT232H found, or the one choice selects.
func Connect(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{log: zerolog.Nop()}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		desc := choice[0]
		if err = desc.Validate(); err != nil {
			return nil, err
		}
		ft.FT232H, err = ft232h.OpenMask(desc.mask())
	default:
		return nil, errors.Errorf("expected at most one descriptor, got %d", len(choice))
	}

	if err != nil {
		return nil, errors.Wrap(err, "open FT232H")
	}

	ft.info = ft.Info()

	return ft, nil
}
