// Package sink provides lsm6ds3.Sink implementations for converted samples.
package sink

import (
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

// Log emits every sample as one structured zerolog event.
type Log struct {
	log   zerolog.Logger
	level zerolog.Level
}

// NewLog logs samples to log at info level.
func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log, level: zerolog.InfoLevel}
}

// WithLevel returns a copy of l logging at level.
func (l *Log) WithLevel(level zerolog.Level) *Log {
	return &Log{log: l.log, level: level}
}

func (l *Log) Emit(s lsm6ds3.Sample) error {
	n := s.Channel.Axes()
	l.log.WithLevel(l.level).
		Stringer("channel", s.Channel).
		Str("unit", s.Channel.Unit()).
		Ints16("raw", s.Raw[:n]).
		Floats64("value", s.Values()).
		Time("sampled", s.Time).
		Msg("sample")
	return nil
}

type multi []lsm6ds3.Sink

// Multi fans every sample out to all sinks. A failing sink does not keep the
// sample from the others; their errors are combined.
func Multi(sinks ...lsm6ds3.Sink) lsm6ds3.Sink {
	return multi(sinks)
}

func (m multi) Emit(s lsm6ds3.Sample) error {
	var err error
	for _, sk := range m {
		err = multierr.Append(err, sk.Emit(s))
	}
	return err
}
