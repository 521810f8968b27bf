package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/berfenger/dht2mqtt/internal/adapter/actor"
	"github.com/berfenger/dht2mqtt/internal/config"
	"github.com/berfenger/dht2mqtt/internal/core/actor"
	"github.com/berfenger/dht2mqtt/internal/core/domain"
	"github.com/berfenger/dht2mqtt/internal/core/service"
	"github.com/berfenger/dht2mqtt/internal/metrics"
	"github.com/berfenger/dht2mqtt/internal/mqtt"
	"github.com/berfenger/dht2mqtt/internal/sensor"
	"github.com/berfenger/dht2mqtt/internal/server"
	"github.com/berfenger/dht2mqtt/internal/util/actorutil"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

const (
	LOOP_STOP_TIMEOUT = 5 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {

	// load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config errors", "error", err)
		return 1
	}

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	logger.Info("Starting dht2mqtt", zap.String("version", versioninfo.Short()),
		zap.Any("config", cfg.Redacted()))

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	defer as.Shutdown()
	root := as.Root

	healthPid, err := root.SpawnNamed(pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewHealthActor(logger)
	}), domain.ACTOR_ID_HEALTH)
	if err != nil {
		logger.Error("could not spawn health actor", zap.Error(err))
		return 1
	}
	notifier := adactor.NewHealthNotifier(root, healthPid)

	metrics.Init()

	// sensor
	bus, err := sensor.OpenRPIOBus()
	if err != nil {
		logger.Error("could not open GPIO", zap.Error(err))
		return 1
	}
	defer bus.Close()

	reader, err := sensor.Resolve(cfg.Poll.SensorKind, bus, logger)
	if err != nil {
		logger.Error("could not resolve sensor", zap.Error(err))
		return 1
	}

	device := domain.SensorDevice(cfg.MQTT.ClientId, cfg.Poll.SensorKind)
	temperature := domain.TemperatureMeasurement(device)
	humidity := domain.HumidityMeasurement(device)

	// broker
	client := mqtt.CreateMQTTClient(cfg.MQTT, mqtt.OptsFromConfig(cfg.MQTT), logger,
		mqtt.LogObserver{Logger: logger}, notifier)
	if err := client.Connect(); err != nil {
		logger.Error("could not connect to the MQTT broker", zap.Error(err))
		return 1
	}
	defer client.Disconnect()

	discovery, err := mqtt.NewDiscoveryPublisher(client, cfg.MQTT.QoS, logger, temperature, humidity)
	if err != nil {
		logger.Error("could not build discovery payloads", zap.Error(err))
		return 1
	}
	logger.Info("Publishing homeassistant data configuration to", zap.Strings("topics", discovery.Topics()))
	state := mqtt.NewStatePublisher(client, cfg.MQTT.QoS, temperature, humidity, logger)

	loop := service.NewPollLoop(cfg.Poll, reader, discovery, state, logger,
		metrics.CycleObserver{}, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	var apiServer *http.Server
	if cfg.HTTP.Port != 0 {
		apiServer = server.NewServer(*cfg, root, healthPid)
		go func() {
			if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http server error", zap.Error(err))
			}
		}()
	}

	// Listen for the interrupt signal.
	<-ctx.Done()
	stop()
	logger.Info("shutting down gracefully, press Ctrl+C again to force")

	if apiServer != nil {
		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Server forced to shutdown", zap.Error(err))
		}
	}

	// a read in progress can take up to READ_RETRIES * READ_RETRY_DELAY;
	// the bus refuses exchanges once closed, so giving up here is safe
	select {
	case <-loopDone:
	case <-time.After(LOOP_STOP_TIMEOUT):
		logger.Warn("poll loop still reading the sensor, closing the bus")
	}

	root.Stop(healthPid)
	logger.Info("Graceful shutdown complete.")
	return 0
}
