package config

import (
	"time"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level  `mapstructure:"-"`
	Poll     PollConfig     `mapstructure:",squash"`
	MQTT     BrokerEndpoint `mapstructure:",squash"`
	HTTP     HTTPConfig     `mapstructure:",squash"`
}

type PollConfig struct {
	IntervalSeconds uint              `mapstructure:"sensor_check_interval"`
	DecimalPoints   uint              `mapstructure:"sensor_decimal_points"`
	TempDeltaOffset float64           `mapstructure:"temp_delta"`
	SensorType      string            `mapstructure:"sensor_type"`
	SensorKind      domain.SensorKind `mapstructure:"-"`
	SensorPin       uint              `mapstructure:"sensor_pin"`
}

func (c PollConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

type BrokerEndpoint struct {
	Hostname       string `mapstructure:"mqtt_hostname"`
	Port           uint   `mapstructure:"mqtt_port"`
	ClientId       string `mapstructure:"mqtt_client_id"`
	CleanSession   bool   `mapstructure:"client_clean_session"`
	Username       string `mapstructure:"mqtt_username"`
	Password       string `mapstructure:"mqtt_password"`
	TimeoutSeconds uint   `mapstructure:"mqtt_timeout"`
	QoS            uint8  `mapstructure:"client_qos"`
}

func (e BrokerEndpoint) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

type HTTPConfig struct {
	Port    uint `mapstructure:"http_port"`
	HttpLog bool `mapstructure:"http_log"`
}

// Redacted returns a copy of the config that is safe to log.
func (c Config) Redacted() Config {
	if c.MQTT.Username != "" {
		c.MQTT.Username = "*redacted*"
	}
	if c.MQTT.Password != "" {
		c.MQTT.Password = "*redacted*"
	}
	return c
}
