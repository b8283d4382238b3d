package lsm6ds3

// Temperature sensor transfer function: 16 LSB/degC, 0 LSB at 25 degC.
const (
	TempLSBPerDegree = 16.0
	TempZeroOffset   = 25.0
)

// FromFs2gToMg converts a raw accelerometer value at ±2g to mg.
func FromFs2gToMg(lsb int16) float64 { return float64(lsb) * 0.061 }

// FromFs4gToMg converts a raw accelerometer value at ±4g to mg.
func FromFs4gToMg(lsb int16) float64 { return float64(lsb) * 0.122 }

// FromFs8gToMg converts a raw accelerometer value at ±8g to mg.
func FromFs8gToMg(lsb int16) float64 { return float64(lsb) * 0.244 }

// FromFs16gToMg converts a raw accelerometer value at ±16g to mg.
func FromFs16gToMg(lsb int16) float64 { return float64(lsb) * 0.488 }

// FromFs125dpsToMdps converts a raw gyroscope value at ±125dps to mdps.
func FromFs125dpsToMdps(lsb int16) float64 { return float64(lsb) * 4.375 }

// FromFs245dpsToMdps converts a raw gyroscope value at ±245dps to mdps.
func FromFs245dpsToMdps(lsb int16) float64 { return float64(lsb) * 8.75 }

// FromFs500dpsToMdps converts a raw gyroscope value at ±500dps to mdps.
func FromFs500dpsToMdps(lsb int16) float64 { return float64(lsb) * 17.50 }

// FromFs1000dpsToMdps converts a raw gyroscope value at ±1000dps to mdps.
func FromFs1000dpsToMdps(lsb int16) float64 { return float64(lsb) * 35.0 }

// FromFs2000dpsToMdps converts a raw gyroscope value at ±2000dps to mdps.
func FromFs2000dpsToMdps(lsb int16) float64 { return float64(lsb) * 70.0 }

// FromLSBToCelsius converts a raw temperature value to degrees Celsius.
func FromLSBToCelsius(lsb int16) float64 {
	return float64(lsb)/TempLSBPerDegree + TempZeroOffset
}

// AccelToMg converts with the sensitivity of fs. Only an unsupported fs fails.
func AccelToMg(lsb int16, fs AccelScale) (float64, error) {
	sens, err := fs.Sensitivity()
	if err != nil {
		return 0, err
	}
	return float64(lsb) * sens, nil
}

// GyroToMdps converts with the sensitivity of fs. Only an unsupported fs fails.
func GyroToMdps(lsb int16, fs GyroScale) (float64, error) {
	sens, err := fs.Sensitivity()
	if err != nil {
		return 0, err
	}
	return float64(lsb) * sens, nil
}

// Convert turns a raw sample into physical units using the full scales in s.
func Convert(raw Raw, s Settings) (Sample, error) {
	out := Sample{Channel: raw.Channel, Raw: raw.Data}

	switch raw.Channel {
	case Accel:
		sens, err := s.AccelScale.Sensitivity()
		if err != nil {
			return out, err
		}
		for i, v := range raw.Data {
			out.Value[i] = float64(v) * sens
		}
	case Gyro:
		sens, err := s.GyroScale.Sensitivity()
		if err != nil {
			return out, err
		}
		for i, v := range raw.Data {
			out.Value[i] = float64(v) * sens
		}
	case Temp:
		out.Value[0] = FromLSBToCelsius(raw.Data[0])
	default:
		return out, unsupported("channel", int(raw.Channel))
	}

	return out, nil
}

// Int16FromBytesLE decodes a little-endian two's complement 16-bit value.
func Int16FromBytesLE(b []byte) int16 {
	return int16(uint16(b[0]) | uint16(b[1])<<8)
}
