package sensor

import (
	"time"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/pkg/errors"
)

const (
	FRAME_BITS        = 40
	ONE_BIT_THRESHOLD = 50 * time.Microsecond
)

var (
	errShortFrame = errors.New("dht: short frame")
	errChecksum   = errors.New("dht: checksum mismatch")
	errOutOfRange = errors.New("dht: value out of range")
)

type frame [5]byte

type model struct {
	kind        domain.SensorKind
	startSignal time.Duration
	parse       func(f frame) domain.SensorSample
}

var models = map[domain.SensorKind]model{
	domain.SENSOR_KIND_DHT11: {
		kind:        domain.SENSOR_KIND_DHT11,
		startSignal: 18 * time.Millisecond,
		parse:       parseDHT11,
	},
	domain.SENSOR_KIND_DHT22: {
		kind:        domain.SENSOR_KIND_DHT22,
		startSignal: 1100 * time.Microsecond,
		parse:       parseDHT22,
	},
}

// decodeFrame turns the last 40 high pulses into a checked frame. Earlier
// pulses belong to the sensor response preamble.
func decodeFrame(pulses []time.Duration) (frame, error) {
	var f frame
	if len(pulses) < FRAME_BITS {
		return f, errors.Wrapf(errShortFrame, "got %d of %d bits", len(pulses), FRAME_BITS)
	}
	for i, width := range pulses[len(pulses)-FRAME_BITS:] {
		f[i/8] <<= 1
		if width > ONE_BIT_THRESHOLD {
			f[i/8] |= 1
		}
	}
	if f[0]+f[1]+f[2]+f[3] != f[4] {
		return f, errors.Wrapf(errChecksum, "frame %x", f[:])
	}
	return f, nil
}

func parseDHT11(f frame) domain.SensorSample {
	temperature := float64(f[2]) + float64(f[3]&0x7f)/10
	if f[3]&0x80 != 0 {
		temperature = -temperature
	}
	return domain.SensorSample{
		Humidity:    float64(f[0]) + float64(f[1])/10,
		Temperature: temperature,
	}
}

func parseDHT22(f frame) domain.SensorSample {
	temperature := float64(uint16(f[2]&0x7f)<<8|uint16(f[3])) / 10
	if f[2]&0x80 != 0 {
		temperature = -temperature
	}
	return domain.SensorSample{
		Humidity:    float64(uint16(f[0])<<8|uint16(f[1])) / 10,
		Temperature: temperature,
	}
}

func (m model) decode(pulses []time.Duration) (domain.SensorSample, error) {
	f, err := decodeFrame(pulses)
	if err != nil {
		return domain.SensorSample{}, err
	}
	sample := m.parse(f)
	if sample.Humidity < 0 || sample.Humidity > 100 || sample.Temperature < -40 || sample.Temperature > 80 {
		return domain.SensorSample{}, errors.Wrapf(errOutOfRange, "%s humidity %.1f temperature %.1f", m.kind,
			sample.Humidity, sample.Temperature)
	}
	return sample, nil
}
