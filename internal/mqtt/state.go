package mqtt

import (
	"github.com/berfenger/dht2mqtt/internal/core/domain"
	"github.com/berfenger/dht2mqtt/internal/core/port"

	"go.uber.org/zap"
)

type StatePublisher struct {
	publisher   port.BrokerPublisher
	qos         byte
	temperature domain.Measurement
	humidity    domain.Measurement
	logger      *zap.Logger
}

func NewStatePublisher(publisher port.BrokerPublisher, qos byte, temperature, humidity domain.Measurement,
	logger *zap.Logger) *StatePublisher {
	return &StatePublisher{
		publisher:   publisher,
		qos:         qos,
		temperature: temperature,
		humidity:    humidity,
		logger:      logger.With(zap.String("component", "state")),
	}
}

// PublishState publishes the bare numeric values, not retained.
func (s *StatePublisher) PublishState(reading domain.Reading) {
	s.publish(s.temperature.StateTopic, domain.FormatValue(reading.Temperature))
	s.publish(s.humidity.StateTopic, domain.FormatValue(reading.Humidity))
}

func (s *StatePublisher) publish(topic, value string) {
	s.logger.Sugar().Debugf("state@publish: sensor publish %s => %s", topic, value)
	s.publisher.Publish(topic, []byte(value), s.qos, false)
}
