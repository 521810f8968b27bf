package port

import "github.com/berfenger/dht2mqtt/internal/core/domain"

// SensorReader performs one blocking read of a humidity/temperature sensor,
// retrying internally. It returns domain.ErrReadFailure when the sensor
// stays unreadable.
type SensorReader interface {
	Read(pin uint8) (domain.SensorSample, error)
}
