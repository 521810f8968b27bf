package util

import (
	"github.com/berfenger/dht2mqtt/internal/config"
	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Poll: config.PollConfig{
			IntervalSeconds: 30,
			DecimalPoints:   2,
			SensorType:      string(domain.SENSOR_KIND_DHT22),
			SensorKind:      domain.SENSOR_KIND_DHT22,
			SensorPin:       4,
		},
		MQTT: config.BrokerEndpoint{
			Hostname:       "localhost",
			Port:           1883,
			ClientId:       "dht-sensor-mqtt",
			TimeoutSeconds: 60,
		},
		HTTP: config.HTTPConfig{
			Port: 8080,
		},
	}
}
