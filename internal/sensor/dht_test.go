package sensor

import (
	"errors"
	"testing"
	"time"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(f frame) []time.Duration {
	// response preamble: sensor holds the line high for ~80us
	pulses := []time.Duration{80 * time.Microsecond}
	for _, b := range f {
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<bit) != 0 {
				pulses = append(pulses, 70*time.Microsecond)
			} else {
				pulses = append(pulses, 27*time.Microsecond)
			}
		}
	}
	return pulses
}

func withChecksum(b0, b1, b2, b3 byte) frame {
	return frame{b0, b1, b2, b3, b0 + b1 + b2 + b3}
}

func TestDecodeDHT22(t *testing.T) {

	// 65.2 %RH, 35.1 C
	pulses := encode(withChecksum(0x02, 0x8c, 0x01, 0x5f))

	sample, err := models[domain.SENSOR_KIND_DHT22].decode(pulses)
	require.NoError(t, err)
	assert.InDelta(t, 65.2, sample.Humidity, 1e-9)
	assert.InDelta(t, 35.1, sample.Temperature, 1e-9)
}

func TestDecodeDHT22Negative(t *testing.T) {

	// -10.1 C
	pulses := encode(withChecksum(0x02, 0x8c, 0x80, 0x65))

	sample, err := models[domain.SENSOR_KIND_DHT22].decode(pulses)
	require.NoError(t, err)
	assert.InDelta(t, -10.1, sample.Temperature, 1e-9)
}

func TestDecodeDHT11(t *testing.T) {

	pulses := encode(withChecksum(45, 0, 23, 4))

	sample, err := models[domain.SENSOR_KIND_DHT11].decode(pulses)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, sample.Humidity, 1e-9)
	assert.InDelta(t, 23.4, sample.Temperature, 1e-9)
}

func TestDecodeChecksumMismatch(t *testing.T) {

	f := withChecksum(0x02, 0x8c, 0x01, 0x5f)
	f[4]++

	_, err := models[domain.SENSOR_KIND_DHT22].decode(encode(f))
	assert.True(t, errors.Is(err, errChecksum))
}

func TestDecodeShortFrame(t *testing.T) {

	pulses := encode(withChecksum(0x02, 0x8c, 0x01, 0x5f))

	_, err := decodeFrame(pulses[:30])
	assert.True(t, errors.Is(err, errShortFrame))
}

func TestDecodeOutOfRange(t *testing.T) {

	// 150 %RH
	_, err := models[domain.SENSOR_KIND_DHT11].decode(encode(withChecksum(150, 0, 20, 0)))
	assert.True(t, errors.Is(err, errOutOfRange))
}

func TestCapture(t *testing.T) {

	// synthetic line: low 50us, high 30us, low 50us, high 70us, low until the end
	edges := []struct {
		at    time.Duration
		level bool
	}{
		{0, false},
		{50 * time.Microsecond, true},
		{80 * time.Microsecond, false},
		{130 * time.Microsecond, true},
		{200 * time.Microsecond, false},
	}

	base := time.Unix(0, 0)
	elapsed := time.Duration(0)
	now := func() time.Time {
		t := base.Add(elapsed)
		elapsed += time.Microsecond
		return t
	}
	level := func() bool {
		current := false
		for _, e := range edges {
			if elapsed >= e.at {
				current = e.level
			}
		}
		return current
	}

	pulses := capture(level, now, time.Millisecond)

	require.Len(t, pulses, 2)
	assert.InDelta(t, float64(30*time.Microsecond), float64(pulses[0]), float64(2*time.Microsecond))
	assert.InDelta(t, float64(70*time.Microsecond), float64(pulses[1]), float64(2*time.Microsecond))
}
