package sim_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3/sim"
)

func TestI2CAddress(t *testing.T) {
	sensor := sim.New()
	sensor.SetI2CAddr(lsm6ds3.I2CAddrHigh)

	low := lsm6ds3.NewDevice(lsm6ds3.NewI2CTransport(sensor, lsm6ds3.I2CAddrLow))
	_, err := low.Identify()
	if !errors.Is(err, sim.ErrWrongSlave) {
		t.Fatalf("expected ErrWrongSlave, got %v", err)
	}
	var be *lsm6ds3.BusError
	if !errors.As(err, &be) {
		t.Errorf("expected a *BusError, got %T", err)
	}

	high := lsm6ds3.NewDevice(lsm6ds3.NewI2CTransport(sensor, lsm6ds3.I2CAddrHigh))
	id, err := high.Identify()
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id != lsm6ds3.DeviceID {
		t.Errorf("expected 0x%02X, got 0x%02X", lsm6ds3.DeviceID, id)
	}
}

func TestSPIWindow(t *testing.T) {
	sensor := sim.New()
	bus := sensor.SPI()
	tr := lsm6ds3.NewSPITransport(bus)

	sensor.Poke(lsm6ds3.RegCtrl1XL, 0xA4)
	sensor.ResetLog()

	buf := make([]byte, 1)
	if err := tr.Read(lsm6ds3.RegCtrl1XL, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf[0] != 0xA4 {
		t.Errorf("expected 0xA4, got 0x%02X", buf[0])
	}

	want := []sim.Event{
		{Op: sim.OpCSAssert},
		{Op: sim.OpTx, Data: []byte{0x90}},
		{Op: sim.OpRx, Data: []byte{0xA4}},
		{Op: sim.OpCSRelease},
	}
	if diff := cmp.Diff(want, sensor.Log()); diff != "" {
		t.Errorf("transfer log mismatch (-want +got):\n%s", diff)
	}
	if bus.CSAsserts() != 1 {
		t.Errorf("expected 1 chip select window, got %d", bus.CSAsserts())
	}
	if bus.CSAsserted() {
		t.Error("chip select left asserted")
	}

	t.Run("FaultReleasesCS", func(t *testing.T) {
		sensor.SetFault(func(dir lsm6ds3.Direction, reg lsm6ds3.Register, n int) error {
			return errors.New("nack")
		})
		defer sensor.SetFault(nil)

		if err := tr.Read(lsm6ds3.RegCtrl1XL, buf); err == nil {
			t.Fatal("expected an error")
		}
		if bus.CSAsserted() {
			t.Error("chip select left asserted after a faulted read")
		}
		if bus.CSAsserts() != 2 {
			t.Errorf("expected 2 chip select windows, got %d", bus.CSAsserts())
		}
	})
}
