package lsm6ds3

import (
	"fmt"
	"strings"
)

// AccelScale is the accelerometer full-scale range.
type AccelScale uint8

const (
	AccelScale2g AccelScale = iota
	AccelScale4g
	AccelScale8g
	AccelScale16g
)

// GyroScale is the gyroscope full-scale range.
type GyroScale uint8

const (
	GyroScale125dps GyroScale = iota
	GyroScale245dps
	GyroScale500dps
	GyroScale1000dps
	GyroScale2000dps
)

// AccelRate is the accelerometer output data rate. The value is the ODR_XL code.
type AccelRate uint8

const (
	AccelRateOff AccelRate = iota
	AccelRate12Hz5
	AccelRate26Hz
	AccelRate52Hz
	AccelRate104Hz
	AccelRate208Hz
	AccelRate416Hz
	AccelRate833Hz
	AccelRate1k66Hz
	AccelRate3k33Hz
	AccelRate6k66Hz
)

// GyroRate is the gyroscope output data rate. The value is the ODR_G code.
type GyroRate uint8

const (
	GyroRateOff GyroRate = iota
	GyroRate12Hz5
	GyroRate26Hz
	GyroRate52Hz
	GyroRate104Hz
	GyroRate208Hz
	GyroRate416Hz
	GyroRate833Hz
	GyroRate1k66Hz
)

type scaleEntry struct {
	code        byte
	sensitivity float64
	name        string
}

// Sensitivities from the datasheet, mg/LSB.
var accelScales = map[AccelScale]scaleEntry{
	AccelScale2g:  {code: 0b00, sensitivity: 0.061, name: "2g"},
	AccelScale16g: {code: 0b01, sensitivity: 0.488, name: "16g"},
	AccelScale4g:  {code: 0b10, sensitivity: 0.122, name: "4g"},
	AccelScale8g:  {code: 0b11, sensitivity: 0.244, name: "8g"},
}

// Sensitivities from the datasheet, mdps/LSB. Codes cover FS_G and FS_125 together.
var gyroScales = map[GyroScale]scaleEntry{
	GyroScale245dps:  {code: 0b000, sensitivity: 8.75, name: "245dps"},
	GyroScale125dps:  {code: 0b001, sensitivity: 4.375, name: "125dps"},
	GyroScale500dps:  {code: 0b010, sensitivity: 17.50, name: "500dps"},
	GyroScale1000dps: {code: 0b100, sensitivity: 35.0, name: "1000dps"},
	GyroScale2000dps: {code: 0b110, sensitivity: 70.0, name: "2000dps"},
}

var rateNames = []string{
	"off", "12.5Hz", "26Hz", "52Hz", "104Hz", "208Hz", "416Hz", "833Hz", "1.66kHz", "3.33kHz", "6.66kHz",
}

// Code returns the FS_XL field value.
func (s AccelScale) Code() (byte, error) {
	e, ok := accelScales[s]
	if !ok {
		return 0, unsupported("accelerometer full scale", uint8(s))
	}
	return e.code, nil
}

// Sensitivity returns mg per LSB.
func (s AccelScale) Sensitivity() (float64, error) {
	e, ok := accelScales[s]
	if !ok {
		return 0, unsupported("accelerometer full scale", uint8(s))
	}
	return e.sensitivity, nil
}

func (s AccelScale) String() string {
	if e, ok := accelScales[s]; ok {
		return e.name
	}
	return fmt.Sprintf("(invalid accel scale %d)", uint8(s))
}

// DecodeAccelScale maps an FS_XL field value back to its AccelScale.
func DecodeAccelScale(code byte) (AccelScale, error) {
	for s, e := range accelScales {
		if e.code == code {
			return s, nil
		}
	}
	return 0, unsupported("accelerometer full scale code", code)
}

// Code returns the combined FS_G/FS_125 field value.
func (s GyroScale) Code() (byte, error) {
	e, ok := gyroScales[s]
	if !ok {
		return 0, unsupported("gyroscope full scale", uint8(s))
	}
	return e.code, nil
}

// Sensitivity returns mdps per LSB.
func (s GyroScale) Sensitivity() (float64, error) {
	e, ok := gyroScales[s]
	if !ok {
		return 0, unsupported("gyroscope full scale", uint8(s))
	}
	return e.sensitivity, nil
}

func (s GyroScale) String() string {
	if e, ok := gyroScales[s]; ok {
		return e.name
	}
	return fmt.Sprintf("(invalid gyro scale %d)", uint8(s))
}

// DecodeGyroScale maps a combined FS_G/FS_125 field value back to its GyroScale.
func DecodeGyroScale(code byte) (GyroScale, error) {
	for s, e := range gyroScales {
		if e.code == code {
			return s, nil
		}
	}
	return 0, unsupported("gyroscope full scale code", code)
}

// Code returns the ODR_XL field value.
func (r AccelRate) Code() (byte, error) {
	if r > AccelRate6k66Hz {
		return 0, unsupported("accelerometer data rate", uint8(r))
	}
	return byte(r), nil
}

func (r AccelRate) String() string {
	if r > AccelRate6k66Hz {
		return fmt.Sprintf("(invalid accel rate %d)", uint8(r))
	}
	return rateNames[r]
}

// Code returns the ODR_G field value.
func (r GyroRate) Code() (byte, error) {
	if r > GyroRate1k66Hz {
		return 0, unsupported("gyroscope data rate", uint8(r))
	}
	return byte(r), nil
}

func (r GyroRate) String() string {
	if r > GyroRate1k66Hz {
		return fmt.Sprintf("(invalid gyro rate %d)", uint8(r))
	}
	return rateNames[r]
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "±")
	s = strings.TrimPrefix(s, "+-")
	return strings.ReplaceAll(s, " ", "")
}

// ParseAccelScale accepts "2g", "4g", "8g" or "16g".
func ParseAccelScale(s string) (AccelScale, error) {
	n := normalize(s)
	for sc, e := range accelScales {
		if e.name == n {
			return sc, nil
		}
	}
	return 0, unsupported("accelerometer full scale", s)
}

// ParseGyroScale accepts "125dps", "245dps", "500dps", "1000dps" or "2000dps".
func ParseGyroScale(s string) (GyroScale, error) {
	n := normalize(s)
	if !strings.HasSuffix(n, "dps") {
		n += "dps"
	}
	for sc, e := range gyroScales {
		if e.name == n {
			return sc, nil
		}
	}
	return 0, unsupported("gyroscope full scale", s)
}

func parseRate(s string, last int) (int, bool) {
	n := normalize(s)
	if !strings.HasSuffix(n, "hz") && n != "off" {
		n += "hz"
	}
	for i := 0; i <= last; i++ {
		if strings.ToLower(rateNames[i]) == n {
			return i, true
		}
	}
	return 0, false
}

// ParseAccelRate accepts "off" or a rate such as "12.5Hz", "104Hz", "6.66kHz".
func ParseAccelRate(s string) (AccelRate, error) {
	i, ok := parseRate(s, int(AccelRate6k66Hz))
	if !ok {
		return 0, unsupported("accelerometer data rate", s)
	}
	return AccelRate(i), nil
}

// ParseGyroRate accepts "off" or a rate such as "12.5Hz", "104Hz", "1.66kHz".
func ParseGyroRate(s string) (GyroRate, error) {
	i, ok := parseRate(s, int(GyroRate1k66Hz))
	if !ok {
		return 0, unsupported("gyroscope data rate", s)
	}
	return GyroRate(i), nil
}

// Settings is the device configuration applied once by Configure.
type Settings struct {
	AccelScale      AccelScale
	GyroScale       GyroScale
	AccelRate       AccelRate
	GyroRate        GyroRate
	BlockDataUpdate bool
}

// DefaultSettings matches ST's polling example: 2g, 2000dps, 12.5Hz, BDU on.
func DefaultSettings() Settings {
	return Settings{
		AccelScale:      AccelScale2g,
		GyroScale:       GyroScale2000dps,
		AccelRate:       AccelRate12Hz5,
		GyroRate:        GyroRate12Hz5,
		BlockDataUpdate: true,
	}
}

// Validate reports the first unsupported field.
func (s Settings) Validate() error {
	if _, err := s.AccelScale.Code(); err != nil {
		return err
	}
	if _, err := s.GyroScale.Code(); err != nil {
		return err
	}
	if _, err := s.AccelRate.Code(); err != nil {
		return err
	}
	if _, err := s.GyroRate.Code(); err != nil {
		return err
	}
	return nil
}

func (s Settings) String() string {
	return fmt.Sprintf("Settings{AccelScale:%s, GyroScale:%s, AccelRate:%s, GyroRate:%s, BDU:%t}",
		s.AccelScale, s.GyroScale, s.AccelRate, s.GyroRate, s.BlockDataUpdate)
}
