package domain

import "errors"

var (
	// ErrConfiguration marks invalid or unsupported settings. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrConnection marks a broker that could not be reached at startup. Fatal.
	ErrConnection = errors.New("mqtt connection error")
	// ErrReadFailure means the sensor was unreadable this cycle.
	ErrReadFailure = errors.New("sensor unreadable")
)
