package lsm6ds3

import (
	"fmt"

	"github.com/pkg/errors"
)

// Direction is the direction of a register access.
type Direction uint8

const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "(invalid direction)"
	}
}

var (
	// ErrIDMismatch is matched by errors returned when WHO_AM_I never reports DeviceID.
	ErrIDMismatch = errors.New("device id mismatch")
	// ErrUnsupportedSetting is matched by errors returned for out-of-range settings.
	ErrUnsupportedSetting = errors.New("unsupported setting")
	// ErrEmptyTransfer is wrapped in a BusError when a zero-length access is requested.
	ErrEmptyTransfer = errors.New("zero-length register transfer")
)

// BusError is returned by a Transport when the underlying transfer fails.
// Transports never retry.
type BusError struct {
	Op       Direction
	Register Register
	Err      error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bus %s of %s (0x%02X) failed: %v", e.Op, e.Register, byte(e.Register), e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

func busErr(op Direction, reg Register, err error) error {
	if err == nil {
		return nil
	}
	return &BusError{Op: op, Register: reg, Err: err}
}

// IDMismatchError reports the last identity seen after the retry budget was spent.
type IDMismatchError struct {
	Got      byte
	Want     byte
	Attempts int
	// Got is the last id actually read, zero if every attempt failed on the bus.
	// LastErr is the bus error of the final attempt, if it failed outright.
	LastErr error
}

func (e *IDMismatchError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("%v: got 0x%02X, want 0x%02X after %d attempts, last attempt: %v",
			ErrIDMismatch, e.Got, e.Want, e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("%v: got 0x%02X, want 0x%02X after %d attempts",
		ErrIDMismatch, e.Got, e.Want, e.Attempts)
}

func (e *IDMismatchError) Is(target error) bool {
	return target == ErrIDMismatch
}

// UnsupportedSettingError names the setting kind and the rejected value.
type UnsupportedSettingError struct {
	Kind  string
	Value string
}

func (e *UnsupportedSettingError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrUnsupportedSetting, e.Kind, e.Value)
}

func (e *UnsupportedSettingError) Is(target error) bool {
	return target == ErrUnsupportedSetting
}

func unsupported(kind string, v any) error {
	return &UnsupportedSettingError{Kind: kind, Value: fmt.Sprint(v)}
}
