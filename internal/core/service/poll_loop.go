package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/dht2mqtt/internal/config"
	"github.com/berfenger/dht2mqtt/internal/core/domain"
	"github.com/berfenger/dht2mqtt/internal/core/port"

	"go.uber.org/zap"
)

// PollLoop announces discovery, samples the sensor and publishes the
// normalized reading, then sleeps for the configured interval. A failing
// cycle is logged and skipped; it never stops the loop.
type PollLoop struct {
	cfg       config.PollConfig
	reader    port.SensorReader
	discovery port.DiscoveryAnnouncer
	state     port.StatePublisher
	observers []port.CycleObserver
	logger    *zap.Logger

	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

func NewPollLoop(cfg config.PollConfig, reader port.SensorReader, discovery port.DiscoveryAnnouncer,
	state port.StatePublisher, logger *zap.Logger, observers ...port.CycleObserver) *PollLoop {
	return &PollLoop{
		cfg:       cfg,
		reader:    reader,
		discovery: discovery,
		state:     state,
		observers: observers,
		logger:    logger.With(zap.String("component", "poll")),
		wait:      sleep,
		now:       time.Now,
	}
}

// Run loops until ctx is cancelled. A hardware read in progress is not
// interrupted.
func (l *PollLoop) Run(ctx context.Context) {
	l.logger.Info("poll@start", zap.Duration("interval", l.cfg.Interval()), zap.String("sensor", string(l.cfg.SensorKind)),
		zap.Uint("pin", l.cfg.SensorPin))
	for ctx.Err() == nil {
		result, err := l.RunCycle()
		l.report(result, err)

		if err := l.wait(ctx, l.cfg.Interval()); err != nil {
			break
		}
	}
	l.logger.Info("poll@stop")
}

// RunCycle runs a single announce, read, publish sequence. The returned
// error is nil or a *domain.CycleError.
func (l *PollLoop) RunCycle() (result domain.CycleResult, err error) {
	result.Started = l.now()
	result.Outcome = domain.CYCLE_SKIPPED

	defer func() {
		if r := recover(); r != nil {
			cycleErr := &domain.CycleError{Kind: domain.CYCLE_ERROR_UNEXPECTED, Err: fmt.Errorf("panic: %v", r)}
			result.Outcome = domain.CYCLE_SKIPPED
			result.Reading = nil
			result.Err = cycleErr
			err = cycleErr
		}
		result.Duration = l.now().Sub(result.Started)
	}()

	l.discovery.Announce()

	sample, readErr := l.reader.Read(uint8(l.cfg.SensorPin))
	if readErr != nil {
		kind := domain.CYCLE_ERROR_UNEXPECTED
		if errors.Is(readErr, domain.ErrReadFailure) {
			kind = domain.CYCLE_ERROR_READ_FAILURE
		}
		cycleErr := &domain.CycleError{Kind: kind, Err: readErr}
		result.Err = cycleErr
		return result, cycleErr
	}

	l.logger.Debug("poll@reading sensor values measured", zap.Float64("temperature", sample.Temperature),
		zap.Float64("humidity", sample.Humidity))

	reading := Normalize(sample, l.cfg.TempDeltaOffset, l.cfg.DecimalPoints)

	l.logger.Debug("poll@publishing publishing data to topics")
	l.state.PublishState(reading)

	result.Outcome = domain.CYCLE_PUBLISHED
	result.Reading = &reading
	return result, nil
}

func (l *PollLoop) report(result domain.CycleResult, err error) {
	var cycleErr *domain.CycleError
	switch {
	case err == nil:
		l.logger.Debug("poll@cycle completed", zap.Stringer("outcome", result.Outcome), zap.Duration("took", result.Duration))
	case errors.As(err, &cycleErr) && cycleErr.Kind == domain.CYCLE_ERROR_READ_FAILURE:
		l.logger.Error("poll@cycle failed to read sensor values, check your wiring and configuration",
			zap.Duration("retry_in", l.cfg.Interval()))
	default:
		l.logger.Error("poll@cycle something went wrong when trying to read the sensor", zap.Error(err))
	}

	for _, o := range l.observers {
		o.OnCycle(result)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
