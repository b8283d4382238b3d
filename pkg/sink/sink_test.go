package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

var (
	accel = lsm6ds3.Sample{
		Channel: lsm6ds3.Accel,
		Raw:     [3]int16{16384, -100, 0},
		Value:   [3]float64{999.424, -6.1, 0},
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	gyro = lsm6ds3.Sample{
		Channel: lsm6ds3.Gyro,
		Raw:     [3]int16{1, 2, 3},
		Value:   [3]float64{70, 140, 210},
	}
	temp = lsm6ds3.Sample{
		Channel: lsm6ds3.Temp,
		Raw:     [3]int16{16},
		Value:   [3]float64{26},
	}
)

func TestText(t *testing.T) {
	var buf bytes.Buffer
	s := NewText(&buf)

	for _, smp := range []lsm6ds3.Sample{accel, gyro, temp} {
		if err := s.Emit(smp); err != nil {
			t.Fatal(err)
		}
	}

	want := "Acceleration [mg]:999.42\t-6.10\t0.00\r\n" +
		"Angular rate [mdps]:70.00\t140.00\t210.00\r\n" +
		"Temperature [degC]: 26.00\r\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if err := s.Emit(lsm6ds3.Sample{Channel: lsm6ds3.Channel(9)}); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	s := NewLog(zerolog.New(&buf))

	if err := s.Emit(accel); err != nil {
		t.Fatal(err)
	}
	if err := s.Emit(temp); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d: %q", len(lines), buf.String())
	}

	type event struct {
		Level   string    `json:"level"`
		Channel string    `json:"channel"`
		Unit    string    `json:"unit"`
		Raw     []int16   `json:"raw"`
		Value   []float64 `json:"value"`
		Message string    `json:"message"`
	}

	var got []event
	for _, line := range lines {
		var ev event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad event %q: %v", line, err)
		}
		got = append(got, ev)
	}

	want := []event{
		{Level: "info", Channel: "accel", Unit: "mg", Raw: []int16{16384, -100, 0}, Value: []float64{999.424, -6.1, 0}, Message: "sample"},
		{Level: "info", Channel: "temp", Unit: "degC", Raw: []int16{16}, Value: []float64{26}, Message: "sample"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}

	t.Run("Level", func(t *testing.T) {
		buf.Reset()
		lvl := s.WithLevel(zerolog.DebugLevel)
		if err := lvl.Emit(gyro); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"level":"debug"`) {
			t.Errorf("expected debug event, got %s", buf.String())
		}
	})
}

func TestMulti(t *testing.T) {
	errFull := errors.New("full")

	var got []string
	record := func(name string, err error) lsm6ds3.Sink {
		return lsm6ds3.SinkFunc(func(s lsm6ds3.Sample) error {
			got = append(got, name+":"+s.Channel.String())
			return err
		})
	}

	m := Multi(record("a", errFull), record("b", nil))

	err := m.Emit(gyro)
	if !errors.Is(err, errFull) {
		t.Errorf("expected sink error, got %v", err)
	}
	if diff := cmp.Diff([]string{"a:gyro", "b:gyro"}, got); diff != "" {
		t.Errorf("fan-out mismatch (-want +got):\n%s", diff)
	}
}
