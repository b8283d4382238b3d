package lsm6ds3

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Delayer blocks the caller for d. clock.Clock satisfies it.
type Delayer interface {
	Sleep(d time.Duration)
}

// Device provides register-level control over an ST LSM6DS3 IMU.
//
// A Device exclusively owns its Transport. It is meant to be driven from a
// single goroutine; only the register caches and State are safe to read
// concurrently.
type Device struct {
	mu sync.RWMutex

	tr    Transport
	delay Delayer
	log   zerolog.Logger

	settings Settings
	state    State

	// Last read or written register states (for reference or debugging)
	regLR [regSpace]byte
	regLW [regSpace]byte
	// whichever of the two happened last
	regCur [regSpace]byte
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger used for startup and diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(dev *Device) {
		dev.log = log
	}
}

// WithDelayer replaces the wall clock used for boot and retry delays.
func WithDelayer(d Delayer) Option {
	return func(dev *Device) {
		dev.delay = d
	}
}

// NewDevice constructs a Device on top of tr.
func NewDevice(tr Transport, opts ...Option) *Device {
	dev := &Device{
		tr:    tr,
		delay: clock.New(),
		log:   zerolog.Nop(),
		state: StateUninitialized,
	}
	for _, opt := range opts {
		opt(dev)
	}
	return dev
}

// Identify reads WHO_AM_I once. Retrying is the caller's business.
func (dev *Device) Identify() (byte, error) {
	return dev.readRegister(RegWhoAmI)
}

// Reset sets SW_RESET. The device needs a settling delay before it is usable.
func (dev *Device) Reset() error {
	return dev.modifyRegister(RegCtrl3C, Ctrl3SWResetbit, Ctrl3SWResetbit)
}

// ResetStatus reports whether SW_RESET still reads as set.
func (dev *Device) ResetStatus() (bool, error) {
	v, err := dev.readRegister(RegCtrl3C)
	if err != nil {
		return false, err
	}
	return v&Ctrl3SWResetbit != 0, nil
}

// SetBlockDataUpdate toggles BDU so output registers are not updated until both
// bytes of a sample have been read.
func (dev *Device) SetBlockDataUpdate(enable bool) error {
	var v byte
	if enable {
		v = Ctrl3BDUbit
	}
	return dev.modifyRegister(RegCtrl3C, Ctrl3BDUbit, v)
}

// SetAccelScale writes FS_XL.
func (dev *Device) SetAccelScale(fs AccelScale) error {
	code, err := fs.Code()
	if err != nil {
		return err
	}
	return dev.modifyRegister(RegCtrl1XL, fsXLMask, code<<fsXLShift)
}

// SetGyroScale writes FS_G and FS_125.
func (dev *Device) SetGyroScale(fs GyroScale) error {
	code, err := fs.Code()
	if err != nil {
		return err
	}
	return dev.modifyRegister(RegCtrl2G, fsGMask, code<<fsGShift)
}

// SetAccelRate writes ODR_XL.
func (dev *Device) SetAccelRate(odr AccelRate) error {
	code, err := odr.Code()
	if err != nil {
		return err
	}
	return dev.modifyRegister(RegCtrl1XL, odrMask, code<<odrShift)
}

// SetGyroRate writes ODR_G.
func (dev *Device) SetGyroRate(odr GyroRate) error {
	code, err := odr.Code()
	if err != nil {
		return err
	}
	return dev.modifyRegister(RegCtrl2G, odrMask, code<<odrShift)
}

// Configure validates s and then writes BDU, both full scales and both data
// rates. Nothing is written if any field is unsupported. There is no read-back;
// a sample already in flight may still reflect the previous configuration.
func (dev *Device) Configure(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	steps := []func() error{
		func() error { return dev.SetBlockDataUpdate(s.BlockDataUpdate) },
		func() error { return dev.SetAccelScale(s.AccelScale) },
		func() error { return dev.SetGyroScale(s.GyroScale) },
		func() error { return dev.SetAccelRate(s.AccelRate) },
		func() error { return dev.SetGyroRate(s.GyroRate) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	dev.mu.Lock()
	dev.settings = s
	dev.mu.Unlock()

	dev.log.Debug().Stringer("settings", s).Msg("configured")

	return nil
}

// Settings returns the configuration last applied by Configure.
func (dev *Device) Settings() Settings {
	dev.mu.RLock()
	defer dev.mu.RUnlock()
	return dev.settings
}

// DataReady performs one STATUS_REG read and tests the flag for ch.
func (dev *Device) DataReady(ch Channel) (bool, error) {
	bit := ch.statusBit()
	if bit == 0 {
		return false, unsupported("channel", int(ch))
	}
	status, err := dev.readRegister(RegStatus)
	if err != nil {
		return false, err
	}
	return status&bit != 0, nil
}

// ReadRaw performs one burst read of the output registers for ch and decodes
// them as little-endian int16 values, X then Y then Z.
func (dev *Device) ReadRaw(ch Channel) (Raw, error) {
	raw := Raw{Channel: ch}

	reg, n := ch.outputRegister()
	var buf []byte
	switch n {
	case outAxisLen:
		buf = get6Bytes()
		defer put6Bytes(buf)
	case outTempLen:
		buf = get2Bytes()
		defer put2Bytes(buf)
	default:
		return raw, unsupported("channel", int(ch))
	}

	if err := dev.tr.Read(reg, buf); err != nil {
		return raw, err
	}

	for i := 0; i < n/2; i++ {
		raw.Data[i] = Int16FromBytesLE(buf[2*i:])
	}

	return raw, nil
}
