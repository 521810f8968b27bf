package actor

import (
	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/asynkron/protoactor-go/actor"
)

// HealthNotifier forwards broker connection transitions and poll cycle
// results to the health actor. Sends never block the caller.
type HealthNotifier struct {
	root *actor.RootContext
	pid  *actor.PID
}

func NewHealthNotifier(root *actor.RootContext, pid *actor.PID) *HealthNotifier {
	return &HealthNotifier{root: root, pid: pid}
}

func (n *HealthNotifier) OnConnect() {
	n.root.Send(n.pid, domain.BrokerConnectionChanged{State: domain.BROKER_STATE_CONNECTED})
}

func (n *HealthNotifier) OnConnectionLost(err error) {
	n.root.Send(n.pid, domain.BrokerConnectionChanged{State: domain.BROKER_STATE_DISCONNECTED, Error: err})
}

func (n *HealthNotifier) OnReconnecting() {
	n.root.Send(n.pid, domain.BrokerConnectionChanged{State: domain.BROKER_STATE_CONNECTING})
}

func (n *HealthNotifier) OnCycle(result domain.CycleResult) {
	n.root.Send(n.pid, domain.CycleCompleted{Result: result})
}
