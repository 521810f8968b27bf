package sensor

import (
	"time"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	READ_RETRIES     = 15
	READ_RETRY_DELAY = 2 * time.Second
)

// DHT reads one DHT11 or DHT22 sensor. It implements port.SensorReader.
type DHT struct {
	model      model
	bus        Bus
	retries    int
	retryDelay time.Duration
	sleep      func(time.Duration)
	logger     *zap.Logger
}

// Resolve selects the driver for kind once, at startup.
func Resolve(kind domain.SensorKind, bus Bus, logger *zap.Logger) (*DHT, error) {
	m, ok := models[kind]
	if !ok {
		return nil, errors.Wrapf(domain.ErrConfiguration, "unsupported sensor type %q", kind)
	}
	return &DHT{
		model:      m,
		bus:        bus,
		retries:    READ_RETRIES,
		retryDelay: READ_RETRY_DELAY,
		sleep:      time.Sleep,
		logger:     logger.With(zap.String("component", "sensor"), zap.String("sensor", string(kind))),
	}, nil
}

func (d *DHT) Kind() domain.SensorKind {
	return d.model.kind
}

// Read tries up to READ_RETRIES times, READ_RETRY_DELAY apart. It has no
// overall timeout.
func (d *DHT) Read(pin uint8) (domain.SensorSample, error) {
	for attempt := 1; attempt <= d.retries; attempt++ {
		sample, err := d.readOnce(pin)
		if err == nil {
			return sample, nil
		}
		if errors.Is(err, ErrBusClosed) {
			return domain.SensorSample{}, errors.Wrap(domain.ErrReadFailure, err.Error())
		}
		d.logger.Debug("dht@read attempt failed", zap.Int("attempt", attempt), zap.Uint8("pin", pin), zap.Error(err))
		if attempt < d.retries {
			d.sleep(d.retryDelay)
		}
	}
	return domain.SensorSample{}, domain.ErrReadFailure
}

func (d *DHT) readOnce(pin uint8) (domain.SensorSample, error) {
	pulses, err := d.bus.Exchange(pin, d.model.startSignal)
	if err != nil {
		return domain.SensorSample{}, err
	}
	return d.model.decode(pulses)
}
