package service

import (
	"strconv"

	"github.com/berfenger/dht2mqtt/internal/core/domain"
)

// Normalize applies the calibration offset to the temperature and rounds
// both values to the given number of decimals.
func Normalize(sample domain.SensorSample, offset float64, decimals uint) domain.Reading {
	return domain.Reading{
		Temperature: Round(sample.Temperature+offset, decimals),
		Humidity:    Round(sample.Humidity, decimals),
		Decimals:    decimals,
	}
}

// Round rounds half to even on the exact binary value of v: 2.5 becomes 2,
// and 2.675 (stored as 2.67499999...) becomes 2.67.
func Round(v float64, decimals uint) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', int(decimals), 64), 64)
	if err != nil {
		return v
	}
	return r
}
