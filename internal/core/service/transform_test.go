package service

import (
	"testing"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExample(t *testing.T) {

	assert := assert.New(t)

	r := Normalize(domain.SensorSample{Temperature: 21.456, Humidity: 55.321}, 0.5, 2)

	assert.Equal(21.96, r.Temperature)
	assert.Equal(55.32, r.Humidity)
	assert.Equal(uint(2), r.Decimals)
	assert.Equal("21.96", domain.FormatValue(r.Temperature))
	assert.Equal("55.32", domain.FormatValue(r.Humidity))
}

func TestNormalizeIsIdempotentWithoutOffset(t *testing.T) {

	samples := []domain.SensorSample{
		{Temperature: 21.456, Humidity: 55.321},
		{Temperature: -3.25, Humidity: 99.99},
		{Temperature: 0.125, Humidity: 0.375},
		{Temperature: 40.0, Humidity: 12.345678},
	}

	for _, s := range samples {
		for decimals := uint(0); decimals <= 4; decimals++ {
			once := Normalize(s, 0, decimals)
			twice := Normalize(domain.SensorSample{Temperature: once.Temperature, Humidity: once.Humidity}, 0, decimals)
			assert.Equal(t, once, twice)
		}
	}
}

func TestRoundHalfToEven(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(2.0, Round(2.5, 0))
	assert.Equal(4.0, Round(3.5, 0))
	assert.Equal(-2.0, Round(-2.5, 0))
	assert.Equal(0.12, Round(0.125, 2))
	assert.Equal(0.38, Round(0.375, 2))
	// 2.675 is stored as 2.67499999...
	assert.Equal(2.67, Round(2.675, 2))
	assert.Equal(22.0, Round(22.0, 2))
}

func TestFormatRoundedValue(t *testing.T) {
	assert.Equal(t, "21.9", domain.FormatValue(Round(21.9, 2)))
	assert.Equal(t, "22.0", domain.FormatValue(Round(22.0, 0)))
	assert.Equal(t, "56.0", domain.FormatValue(Round(55.5, 0)))
	assert.Equal(t, "-0.5", domain.FormatValue(Round(-0.5, 1)))
}
