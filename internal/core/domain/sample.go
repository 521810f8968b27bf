package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type SensorKind string

const (
	SENSOR_KIND_DHT11 SensorKind = "DHT11"
	SENSOR_KIND_DHT22 SensorKind = "DHT22"
)

func ParseSensorKind(name string) (SensorKind, error) {
	switch kind := SensorKind(strings.ToUpper(strings.TrimSpace(name))); kind {
	case SENSOR_KIND_DHT11, SENSOR_KIND_DHT22:
		return kind, nil
	default:
		return "", errors.Wrapf(ErrConfiguration, "unsupported sensor type %q, supported sensor types: 'DHT22' and 'DHT11'", name)
	}
}

// SensorSample is a raw humidity/temperature pair as returned by the sensor.
type SensorSample struct {
	Humidity    float64
	Temperature float64
}

// Reading is a SensorSample after calibration and rounding.
type Reading struct {
	Temperature float64
	Humidity    float64
	Decimals    uint
}

// FormatValue renders an already rounded value as published on a state
// topic: the shortest representation that parses back to v, always with a
// fractional part ("22.0", "21.9"), and exponent notation below 1e-4 or
// from 1e16 on ("3e-05").
func FormatValue(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
