package actor

import (
	"fmt"

	"github.com/berfenger/dht2mqtt/internal/core/domain"
	. "github.com/berfenger/dht2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// HealthActor tracks broker connectivity and the last poll cycles. It
// answers domain.ActorHealthRequest; it is healthy while the broker
// connection is up.
type HealthActor struct {
	ActorWithStates
	lastCycle           *domain.CycleResult
	consecutiveFailures int
	publishedCycles     int

	logger *zap.Logger
}

func NewHealthActor(logger *zap.Logger) *HealthActor {
	act := &HealthActor{
		logger: ActorLogger(domain.ACTOR_ID_HEALTH, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(HDisconnectedState{
		actor: act,
	})
	return act
}

func (state *HealthActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

func (state *HealthActor) onCycle(msg domain.CycleCompleted) {
	result := msg.Result
	state.lastCycle = &result
	if result.Outcome == domain.CYCLE_PUBLISHED {
		state.consecutiveFailures = 0
		state.publishedCycles++
	} else {
		state.consecutiveFailures++
	}
	state.logger.Debug("health@cycle", zap.Stringer("outcome", result.Outcome),
		zap.Int("consecutive_failures", state.consecutiveFailures))
}

func (state *HealthActor) respond(ctx actor.Context, healthy bool) {
	last := "none"
	if state.lastCycle != nil {
		last = state.lastCycle.Outcome.String()
	}
	ctx.Respond(domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_HEALTH,
		Healthy: healthy,
		State: fmt.Sprintf("broker=%s last_cycle=%s published=%d consecutive_failures=%d",
			state.StateName(), last, state.publishedCycles, state.consecutiveFailures),
	})
}

// Disconnected state

type HDisconnectedState struct {
	ActorState
	actor *HealthActor
}

func (state HDisconnectedState) Name() string {
	return domain.BROKER_STATE_DISCONNECTED
}

func (state HDisconnectedState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.actor.logger.Debug("health@disconnected started")
	case domain.BrokerConnectionChanged:
		state.actor.logger.Debug("health@disconnected BrokerConnectionChanged", zap.String("state", msg.State))
		if msg.State == domain.BROKER_STATE_CONNECTED {
			state.actor.Become(HConnectedState{
				actor: state.actor,
			})
		}
	case domain.CycleCompleted:
		state.actor.onCycle(msg)
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("health@disconnected ActorHealthRequest")
		state.actor.respond(ctx, false)
	}
}

// Connected state

type HConnectedState struct {
	ActorState
	actor *HealthActor
}

func (state HConnectedState) Name() string {
	return domain.BROKER_STATE_CONNECTED
}

func (state HConnectedState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.BrokerConnectionChanged:
		state.actor.logger.Debug("health@connected BrokerConnectionChanged", zap.String("state", msg.State), zap.Error(msg.Error))
		if msg.State != domain.BROKER_STATE_CONNECTED {
			state.actor.Become(HDisconnectedState{
				actor: state.actor,
			})
		}
	case domain.CycleCompleted:
		state.actor.onCycle(msg)
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("health@connected ActorHealthRequest")
		state.actor.respond(ctx, true)
	}
}
