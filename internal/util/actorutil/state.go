package actorutil

import (
	"github.com/asynkron/protoactor-go/actor"
)

type ActorWithStates struct {
	Behavior actor.Behavior
	current  string
}

type ActorState interface {
	Name() string
	Receive(actor.Context)
}

func (s *ActorWithStates) Become(state ActorState) {
	s.current = state.Name()
	s.Behavior.Become(state.Receive)
}

// StateName returns the name of the state the actor last became.
func (s *ActorWithStates) StateName() string {
	return s.current
}
