package metrics

import (
	"sync"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "dht2mqtt_"
)

var (
	registerOnce sync.Once

	cyclesTotal     *prometheus.CounterVec
	cycleLatency    *prometheus.HistogramVec
	lastReading     *prometheus.GaugeVec
	brokerConnected prometheus.Gauge
	publishErrors   prometheus.Counter
)

// Init registers the metrics in the default registry.
func Init() {
	registerOnce.Do(func() {
		cyclesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cycles_total",
				Help: "Total poll cycles by outcome",
			},
			[]string{"outcome"},
		)
		cycleLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "cycle_latency_seconds",
				Help:    "Poll cycle duration in seconds, dominated by the sensor read",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"outcome"},
		)
		lastReading = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_reading",
				Help: "Last published reading by measurement",
			},
			[]string{"measurement"},
		)
		brokerConnected = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "broker_connected",
				Help: "1 when the MQTT connection is up",
			},
		)
		publishErrors = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "publish_errors_total",
				Help: "Total MQTT publishes that failed or timed out",
			},
		)

		prometheus.MustRegister(
			cyclesTotal,
			cycleLatency,
			lastReading,
			brokerConnected,
			publishErrors,
		)
	})
}

// ObserveCycle records a poll cycle outcome, its latency and the last reading.
func ObserveCycle(result domain.CycleResult) {
	outcome := result.Outcome.String()
	if result.Err != nil {
		outcome = result.Err.Kind.String()
	}
	if cyclesTotal != nil {
		cyclesTotal.WithLabelValues(outcome).Inc()
	}
	if cycleLatency != nil {
		cycleLatency.WithLabelValues(outcome).Observe(result.Duration.Seconds())
	}
	if result.Reading != nil && lastReading != nil {
		lastReading.WithLabelValues(domain.DEVICE_CLASS_TEMPERATURE).Set(result.Reading.Temperature)
		lastReading.WithLabelValues(domain.DEVICE_CLASS_HUMIDITY).Set(result.Reading.Humidity)
	}
}

// SetBrokerConnected tracks the broker connection state.
func SetBrokerConnected(connected bool) {
	if brokerConnected == nil {
		return
	}
	if connected {
		brokerConnected.Set(1)
	} else {
		brokerConnected.Set(0)
	}
}

// IncPublishError increments the failed publish counter.
func IncPublishError() {
	if publishErrors != nil {
		publishErrors.Inc()
	}
}

// CycleObserver forwards poll cycle results to ObserveCycle.
type CycleObserver struct{}

func (CycleObserver) OnCycle(result domain.CycleResult) {
	ObserveCycle(result)
}
