package mqtt

import (
	"encoding/json"

	"github.com/berfenger/dht2mqtt/internal/core/domain"
	"github.com/berfenger/dht2mqtt/internal/core/port"

	"go.uber.org/zap"
)

type discoveryMessage struct {
	topic   string
	payload []byte
	retain  bool
}

// DiscoveryPublisher republishes the same pre-serialized discovery
// payloads on every Announce.
type DiscoveryPublisher struct {
	publisher port.BrokerPublisher
	qos       byte
	messages  []discoveryMessage
	logger    *zap.Logger
}

func NewDiscoveryPublisher(publisher port.BrokerPublisher, qos byte, logger *zap.Logger,
	measurements ...domain.Measurement) (*DiscoveryPublisher, error) {
	d := &DiscoveryPublisher{
		publisher: publisher,
		qos:       qos,
		logger:    logger.With(zap.String("component", "hadiscovery")),
	}
	for i := range measurements {
		payload, err := DiscoveryPayload(measurements[i])
		if err != nil {
			return nil, err
		}
		d.messages = append(d.messages, discoveryMessage{
			topic:   measurements[i].ConfigTopic,
			payload: payload,
			retain:  measurements[i].Discovery.Retain,
		})
	}
	return d, nil
}

func DiscoveryPayload(m domain.Measurement) ([]byte, error) {
	return json.Marshal(m.Discovery)
}

func (d *DiscoveryPublisher) Announce() {
	for _, msg := range d.messages {
		d.logger.Debug("hadiscovery@announce", zap.String("topic", msg.topic))
		d.publisher.Publish(msg.topic, msg.payload, d.qos, msg.retain)
	}
}

// Topics returns the config topics in announce order.
func (d *DiscoveryPublisher) Topics() []string {
	topics := make([]string, 0, len(d.messages))
	for _, msg := range d.messages {
		topics = append(topics, msg.topic)
	}
	return topics
}
