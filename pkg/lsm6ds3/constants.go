package lsm6ds3

import (
	"fmt"
	"time"
)

// Constants from the datasheet

// Register is an 8-bit register address on the LSM6DS3.
type Register byte

// Register Addresses
const (
	// RegFuncCfgAccess enables access to the embedded functions registers
	RegFuncCfgAccess Register = 0x01
	// RegFIFOCtrl1 is the FIFO threshold register (low byte)
	RegFIFOCtrl1 Register = 0x06
	// RegFIFOCtrl2 is the FIFO threshold register (high bits)
	RegFIFOCtrl2 Register = 0x07
	// RegFIFOCtrl3 is the FIFO decimation register
	RegFIFOCtrl3 Register = 0x08
	// RegFIFOCtrl4 is the FIFO third/fourth data set register
	RegFIFOCtrl4 Register = 0x09
	// RegFIFOCtrl5 is the FIFO ODR and mode register
	RegFIFOCtrl5 Register = 0x0A
	// RegOrientCfgG is the angular rate sign and orientation register
	RegOrientCfgG Register = 0x0B
	// RegInt1Ctrl is the INT1 pad control register
	RegInt1Ctrl Register = 0x0D
	// RegInt2Ctrl is the INT2 pad control register
	RegInt2Ctrl Register = 0x0E
	// RegWhoAmI is the identification register
	RegWhoAmI Register = 0x0F
	// RegCtrl1XL is the accelerometer control register (ODR, full scale, bandwidth)
	RegCtrl1XL Register = 0x10
	// RegCtrl2G is the gyroscope control register (ODR, full scale)
	RegCtrl2G Register = 0x11
	// RegCtrl3C is the common control register (BDU, IF_INC, SW_RESET)
	RegCtrl3C Register = 0x12
	// RegCtrl4C is control register 4
	RegCtrl4C Register = 0x13
	// RegCtrl5C is control register 5 (rounding, self-test)
	RegCtrl5C Register = 0x14
	// RegCtrl6C is control register 6 (accelerometer high-performance mode)
	RegCtrl6C Register = 0x15
	// RegCtrl7G is control register 7 (gyroscope high-performance mode, filters)
	RegCtrl7G Register = 0x16
	// RegCtrl8XL is control register 8 (accelerometer filters)
	RegCtrl8XL Register = 0x17
	// RegCtrl9XL is control register 9 (accelerometer axis enable)
	RegCtrl9XL Register = 0x18
	// RegCtrl10C is control register 10 (gyroscope axis enable, embedded functions)
	RegCtrl10C Register = 0x19
	// RegStatus is the data-ready status register
	RegStatus Register = 0x1E
	// RegOutTempL is the first of two temperature output registers
	RegOutTempL Register = 0x20
	// RegOutXLG is the first of six gyroscope output registers
	RegOutXLG Register = 0x22
	// RegOutXLXL is the first of six accelerometer output registers
	RegOutXLXL Register = 0x28
)

// DeviceID is the value of RegWhoAmI on a genuine LSM6DS3.
const DeviceID = 0x69

// I2C slave addresses, selected by the SDO/SA0 pin.
const (
	I2CAddrLow  = 0x6A
	I2CAddrHigh = 0x6B
)

// SPI address byte framing
const (
	spiReadBit  = 0x80
	spiAddrMask = 0x7F
)

// Bits for CTRL3_C
const (
	Ctrl3BDUbit     = 0x40 // (bit6) block data update
	Ctrl3IFIncbit   = 0x04 // (bit2) register address auto-increment
	Ctrl3SWResetbit = 0x01 // (bit0) software reset, self-clearing
)

// Bits for STATUS_REG
const (
	StatusXLDAbit = 0x01 // (bit0) accelerometer data available
	StatusGDAbit  = 0x02 // (bit1) gyroscope data available
	StatusTDAbit  = 0x04 // (bit2) temperature data available
)

// CTRL1_XL and CTRL2_G field layout
const (
	odrShift   = 4
	odrMask    = 0xF0
	fsXLShift  = 2
	fsXLMask   = 0x0C
	fsGShift   = 1
	fsGMask    = 0x0E // FS_G[3:2] and FS_125[1]
	outAxisLen = 6
	outTempLen = 2
)

// Timing used by the startup sequence.
const (
	DefaultBootTime      = 20 * time.Millisecond
	DefaultIdentifyDelay = 50 * time.Millisecond
	DefaultResetSettle   = 1 * time.Millisecond

	// IdentifyAttempts is the fixed WHO_AM_I retry budget.
	IdentifyAttempts = 3
)

// controlRegisters are dumped by Registers, in address order.
var controlRegisters = []Register{
	RegFuncCfgAccess,
	RegFIFOCtrl1, RegFIFOCtrl2, RegFIFOCtrl3, RegFIFOCtrl4, RegFIFOCtrl5,
	RegOrientCfgG, RegInt1Ctrl, RegInt2Ctrl, RegWhoAmI,
	RegCtrl1XL, RegCtrl2G, RegCtrl3C, RegCtrl4C, RegCtrl5C,
	RegCtrl6C, RegCtrl7G, RegCtrl8XL, RegCtrl9XL, RegCtrl10C,
	RegStatus,
}

var registerNames = map[Register]string{
	RegFuncCfgAccess: "FUNC_CFG_ACCESS",
	RegFIFOCtrl1:     "FIFO_CTRL1",
	RegFIFOCtrl2:     "FIFO_CTRL2",
	RegFIFOCtrl3:     "FIFO_CTRL3",
	RegFIFOCtrl4:     "FIFO_CTRL4",
	RegFIFOCtrl5:     "FIFO_CTRL5",
	RegOrientCfgG:    "ORIENT_CFG_G",
	RegInt1Ctrl:      "INT1_CTRL",
	RegInt2Ctrl:      "INT2_CTRL",
	RegWhoAmI:        "WHO_AM_I",
	RegCtrl1XL:       "CTRL1_XL",
	RegCtrl2G:        "CTRL2_G",
	RegCtrl3C:        "CTRL3_C",
	RegCtrl4C:        "CTRL4_C",
	RegCtrl5C:        "CTRL5_C",
	RegCtrl6C:        "CTRL6_C",
	RegCtrl7G:        "CTRL7_G",
	RegCtrl8XL:       "CTRL8_XL",
	RegCtrl9XL:       "CTRL9_XL",
	RegCtrl10C:       "CTRL10_C",
	RegStatus:        "STATUS_REG",
	RegOutTempL:      "OUT_TEMP_L",
	RegOutXLG:        "OUTX_L_G",
	RegOutXLXL:       "OUTX_L_XL",
}

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REG_0x%02X", byte(r))
}
