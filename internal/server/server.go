package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/dht2mqtt/internal/config"

	"github.com/asynkron/protoactor-go/actor"
)

type Server struct {
	port        uint
	httpLog     bool
	rootContext *actor.RootContext
	healthActor *actor.PID
}

func NewServer(cfg config.Config, rootContext *actor.RootContext, healthActor *actor.PID) *http.Server {
	NewServer := &Server{
		port:        cfg.HTTP.Port,
		rootContext: rootContext,
		healthActor: healthActor,
		httpLog:     cfg.HTTP.HttpLog,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
