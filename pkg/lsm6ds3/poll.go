package lsm6ds3

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// maxKeptErrors bounds the error history returned by Poller.Err.
const maxKeptErrors = 50

// SampleSource is what the Poller needs from a device. *Device satisfies it.
type SampleSource interface {
	DataReady(ch Channel) (bool, error)
	ReadRaw(ch Channel) (Raw, error)
	Settings() Settings
}

// ChannelStats counts poll outcomes for one channel.
type ChannelStats struct {
	Ready   uint64
	Emitted uint64
	Errors  uint64
}

// ChannelError ties a poll failure to its channel.
type ChannelError struct {
	Channel Channel
	Err     error
}

func (e *ChannelError) Error() string {
	return e.Channel.String() + ": " + e.Err.Error()
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// Poller checks the data-ready flag of every channel on every iteration and
// forwards converted samples to a Sink. A failure on one channel is reported
// and never keeps the remaining channels from being polled.
type Poller struct {
	src      SampleSource
	sink     Sink
	log      zerolog.Logger
	clock    clock.Clock
	interval time.Duration
	onError  func(Channel, error)

	done *atomic.Bool

	mu    sync.Mutex
	stats [len(Channels)]ChannelStats
	err   []error
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollLogger sets the logger poll errors are reported to.
func WithPollLogger(log zerolog.Logger) PollerOption {
	return func(p *Poller) {
		p.log = log
	}
}

// WithClock replaces the clock used for sample timestamps and the poll interval.
func WithClock(c clock.Clock) PollerOption {
	return func(p *Poller) {
		p.clock = c
	}
}

// WithInterval sleeps between iterations. Zero polls back to back.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithErrorHandler is called for every per-channel failure, after logging.
func WithErrorHandler(fn func(Channel, error)) PollerOption {
	return func(p *Poller) {
		p.onError = fn
	}
}

// NewPoller constructs a Poller reading from src and emitting into sink.
func NewPoller(src SampleSource, sink Sink, opts ...PollerOption) *Poller {
	p := &Poller{
		src:   src,
		sink:  sink,
		log:   zerolog.Nop(),
		clock: clock.New(),
		done:  &atomic.Bool{},
		err:   make([]error, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) addErr(ch Channel, err error) {
	if err == nil {
		return
	}

	cerr := &ChannelError{Channel: ch, Err: err}

	p.mu.Lock()
	p.stats[ch].Errors++
	p.err = append(p.err, cerr)
	if len(p.err) > maxKeptErrors {
		p.err = p.err[len(p.err)-maxKeptErrors:]
	}
	p.mu.Unlock()

	p.log.Warn().Err(err).Stringer("channel", ch).Msg("poll failed")

	if p.onError != nil {
		p.onError(ch, err)
	}
}

// Err returns the most recent poll errors joined together, or nil.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.err) == 0 {
		return nil
	}
	return errors.Wrap(multierr.Combine(p.err...), "poll errors")
}

// Stats returns a snapshot of the per-channel counters.
func (p *Poller) Stats() map[Channel]ChannelStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[Channel]ChannelStats, len(Channels))
	for _, ch := range Channels {
		out[ch] = p.stats[ch]
	}
	return out
}

// Stop makes Run return after the current iteration.
func (p *Poller) Stop() {
	p.done.Store(true)
}

// IsDone reports whether Stop has been called.
func (p *Poller) IsDone() bool {
	return p.done.Load()
}

// pollChannel runs data-ready, read, convert and emit for one channel.
func (p *Poller) pollChannel(ch Channel) error {
	ready, err := p.src.DataReady(ch)
	if err != nil {
		return errors.Wrap(err, "data ready")
	}
	if !ready {
		return nil
	}

	p.mu.Lock()
	p.stats[ch].Ready++
	p.mu.Unlock()

	raw, err := p.src.ReadRaw(ch)
	if err != nil {
		return errors.Wrap(err, "read")
	}

	sample, err := Convert(raw, p.src.Settings())
	if err != nil {
		return errors.Wrap(err, "convert")
	}
	sample.Time = p.clock.Now()

	if err = p.sink.Emit(sample); err != nil {
		return errors.Wrap(err, "emit")
	}

	p.mu.Lock()
	p.stats[ch].Emitted++
	p.mu.Unlock()

	return nil
}

// Poll runs one iteration over Accel, Gyro and Temp, in that order. Every
// channel is checked regardless of what happened to the others; the returned
// error combines the failures of this iteration, all of which have already
// been reported.
func (p *Poller) Poll() error {
	var errs error
	for _, ch := range Channels {
		if err := p.pollChannel(ch); err != nil {
			p.addErr(ch, err)
			errs = multierr.Append(errs, &ChannelError{Channel: ch, Err: err})
		}
	}
	return errs
}

// Run polls until ctx is done or Stop is called. Per-channel errors do not end
// the loop. It returns ctx.Err() when cancelled and nil when stopped.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Debug().Dur("interval", p.interval).Msg("polling")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if p.done.Load() {
			return nil
		}

		_ = p.Poll()

		if p.interval > 0 {
			p.clock.Sleep(p.interval)
		}
	}
}
