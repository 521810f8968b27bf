package domain

const (
	ACTOR_ID_HEALTH = "health"

	BROKER_STATE_CONNECTED    = "connected"
	BROKER_STATE_CONNECTING   = "connecting"
	BROKER_STATE_DISCONNECTED = "disconnected"
)

type ActorHealthRequest struct {
}

type ActorHealthResponse struct {
	Id      string
	Healthy bool
	State   string
}

// BrokerConnectionChanged is sent to the health actor on every broker
// connection state transition.
type BrokerConnectionChanged struct {
	State string
	Error error
}

// CycleCompleted is sent to the health actor after every poll cycle.
type CycleCompleted struct {
	Result CycleResult
}
