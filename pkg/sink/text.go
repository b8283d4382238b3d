package sink

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

// Text writes the diagnostic line format of ST's polling example, one line per
// sample, CRLF terminated.
type Text struct {
	w io.Writer
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Emit(s lsm6ds3.Sample) error {
	var err error
	switch s.Channel {
	case lsm6ds3.Accel:
		_, err = fmt.Fprintf(t.w, "Acceleration [mg]:%4.2f\t%4.2f\t%4.2f\r\n", s.Value[0], s.Value[1], s.Value[2])
	case lsm6ds3.Gyro:
		_, err = fmt.Fprintf(t.w, "Angular rate [mdps]:%4.2f\t%4.2f\t%4.2f\r\n", s.Value[0], s.Value[1], s.Value[2])
	case lsm6ds3.Temp:
		_, err = fmt.Fprintf(t.w, "Temperature [degC]:%6.2f\r\n", s.Value[0])
	default:
		err = errors.Errorf("no text format for channel %s", s.Channel)
	}
	return err
}
