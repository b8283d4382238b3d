package lsm6ds3

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// State is the position of a Device in its startup sequence.
type State int

const (
	StateUninitialized State = iota
	StateIdentifying
	StateIdentified
	StateFailed
	StateResetting
	StateConfiguring
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdentifying:
		return "identifying"
	case StateIdentified:
		return "identified"
	case StateFailed:
		return "failed"
	case StateResetting:
		return "resetting"
	case StateConfiguring:
		return "configuring"
	case StatePolling:
		return "polling"
	default:
		return "(invalid state)"
	}
}

// StartupConfig controls the startup sequence. Zero durations are valid and
// skip the corresponding delay.
type StartupConfig struct {
	Settings      Settings
	BootTime      time.Duration
	IdentifyDelay time.Duration
	ResetSettle   time.Duration
}

// DefaultStartupConfig provides the timings of ST's polling example.
func DefaultStartupConfig() StartupConfig {
	return StartupConfig{
		Settings:      DefaultSettings(),
		BootTime:      DefaultBootTime,
		IdentifyDelay: DefaultIdentifyDelay,
		ResetSettle:   DefaultResetSettle,
	}
}

// State returns the current startup state.
func (dev *Device) State() State {
	dev.mu.RLock()
	defer dev.mu.RUnlock()
	return dev.state
}

func (dev *Device) setState(s State) {
	dev.mu.Lock()
	prev := dev.state
	dev.state = s
	dev.mu.Unlock()
	dev.log.Debug().Stringer("from", prev).Stringer("to", s).Msg("state")
}

func (dev *Device) sleep(d time.Duration) {
	if d > 0 {
		dev.delay.Sleep(d)
	}
}

// Startup takes the device from power-on to StatePolling: boot delay,
// identification with a fixed budget of IdentifyAttempts, two software resets
// and a single reset read-back, then Configure.
//
// An identification failure leaves the device in StateFailed and returns an
// *IDMismatchError. Any other error leaves the device in the state it failed in.
func (dev *Device) Startup(ctx context.Context, cfg StartupConfig) error {
	// reject bad settings before touching the bus
	if err := cfg.Settings.Validate(); err != nil {
		return err
	}

	dev.sleep(cfg.BootTime)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := dev.identify(ctx, cfg.IdentifyDelay); err != nil {
		return err
	}

	dev.setState(StateResetting)

	for i := 0; i < 2; i++ {
		if err := dev.Reset(); err != nil {
			return errors.Wrap(err, "reset")
		}
		dev.sleep(cfg.ResetSettle)
	}

	pending, err := dev.ResetStatus()
	if err != nil {
		return errors.Wrap(err, "reset status")
	}
	if pending {
		dev.log.Warn().Msg("SW_RESET still set after settle delay")
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	dev.setState(StateConfiguring)

	if err = dev.Configure(cfg.Settings); err != nil {
		return errors.Wrap(err, "configure")
	}

	dev.setState(StatePolling)

	return nil
}

func (dev *Device) identify(ctx context.Context, retryDelay time.Duration) error {
	dev.setState(StateIdentifying)

	var (
		seen    byte // last id actually read
		lastErr error
	)

	for attempt := 1; attempt <= IdentifyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		dev.sleep(retryDelay)

		id, err := dev.Identify()
		lastErr = err
		if err != nil {
			dev.log.Debug().Err(lastErr).Int("attempt", attempt).Msg("identify failed")
			continue
		}

		dev.log.Debug().Uint8("id", id).Int("attempt", attempt).Msg("identify")
		seen = id

		if id == DeviceID {
			dev.setState(StateIdentified)
			return nil
		}
	}

	dev.setState(StateFailed)

	return &IDMismatchError{Got: seen, Want: DeviceID, Attempts: IdentifyAttempts, LastErr: lastErr}
}
