package port

import "github.com/berfenger/dht2mqtt/internal/core/domain"

// BrokerPublisher queues a message for delivery. It never blocks on the
// broker acknowledgement and never reports delivery errors to the caller.
type BrokerPublisher interface {
	Publish(topic string, payload []byte, qos byte, retain bool)
}

// DiscoveryAnnouncer republishes the discovery configs. Publish failures
// are only observed through the broker connection.
type DiscoveryAnnouncer interface {
	Announce()
}

type StatePublisher interface {
	PublishState(reading domain.Reading)
}

type CycleObserver interface {
	OnCycle(result domain.CycleResult)
}
