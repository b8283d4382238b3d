package lsm6ds3

import (
	"time"
)

// Channel is one of the three independently flagged data channels.
type Channel int

const (
	Accel Channel = iota
	Gyro
	Temp
)

// Channels is the fixed polling order.
var Channels = [...]Channel{Accel, Gyro, Temp}

func (c Channel) String() string {
	switch c {
	case Accel:
		return "accel"
	case Gyro:
		return "gyro"
	case Temp:
		return "temp"
	default:
		return "(invalid channel)"
	}
}

// statusBit is the STATUS_REG flag for c.
func (c Channel) statusBit() byte {
	switch c {
	case Accel:
		return StatusXLDAbit
	case Gyro:
		return StatusGDAbit
	case Temp:
		return StatusTDAbit
	default:
		return 0
	}
}

// outputRegister is the first output register and the burst length for c.
func (c Channel) outputRegister() (Register, int) {
	switch c {
	case Accel:
		return RegOutXLXL, outAxisLen
	case Gyro:
		return RegOutXLG, outAxisLen
	case Temp:
		return RegOutTempL, outTempLen
	default:
		return 0, 0
	}
}

// Axes is the number of meaningful values in a sample of c.
func (c Channel) Axes() int {
	if c == Temp {
		return 1
	}
	return 3
}

// Unit is the physical unit of a converted sample.
func (c Channel) Unit() string {
	switch c {
	case Accel:
		return "mg"
	case Gyro:
		return "mdps"
	case Temp:
		return "degC"
	default:
		return ""
	}
}

// Raw is an undecoded-to-units sample. Temp uses only Data[0].
type Raw struct {
	Channel Channel
	Data    [3]int16
}

// Sample is a converted reading, valid for Channel.Axes() entries of Value.
type Sample struct {
	Channel Channel
	Raw     [3]int16
	Value   [3]float64
	Time    time.Time
}

// Values returns the meaningful part of Value.
func (s Sample) Values() []float64 {
	return s.Value[:s.Channel.Axes()]
}

// Sink receives converted samples, one per Emit call.
type Sink interface {
	Emit(Sample) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Sample) error

func (f SinkFunc) Emit(s Sample) error {
	return f(s)
}
