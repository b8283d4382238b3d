package lsm6ds3

import "sync"

var (
	sixBytes = &sync.Pool{New: func() interface{} { return make([]byte, outAxisLen) }}
	twoBytes = &sync.Pool{New: func() interface{} { return make([]byte, outTempLen) }}
	oneByte  = &sync.Pool{New: func() interface{} { return make([]byte, 1) }}
)

func get6Bytes() []byte {
	return sixBytes.Get().([]byte)
}

func put6Bytes(b []byte) {
	clear(b)
	sixBytes.Put(b)
}

func get2Bytes() []byte {
	return twoBytes.Get().([]byte)
}

func put2Bytes(b []byte) {
	b[0], b[1] = 0, 0
	twoBytes.Put(b)
}

func get1Byte() []byte {
	return oneByte.Get().([]byte)
}

func put1Byte(b []byte) {
	b[0] = 0
	oneByte.Put(b)
}
