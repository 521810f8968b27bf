package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/berfenger/dht2mqtt/internal/core/domain"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	MAX_DECIMAL_POINTS = 10
	MAX_GPIO_PIN       = 255
	MAX_QOS            = 2
)

// Load reads the configuration from the environment and, when CONFIG_FILE
// points to an existing file, from that file. Every error wraps
// domain.ErrConfiguration.
func Load() (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			v.SetConfigFile(cfgFile)

			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(domain.ErrConfiguration, "error reading config file %s: %v", cfgFile, err)
			}
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(domain.ErrConfiguration, "%v", err)
	}

	level, err := parseLogLevel(v.GetString("log_level"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	kind, err := domain.ParseSensorKind(cfg.Poll.SensorType)
	if err != nil {
		return nil, err
	}
	cfg.Poll.SensorKind = kind
	cfg.Poll.SensorType = string(kind)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("sensor_type", string(domain.SENSOR_KIND_DHT22))
	v.SetDefault("sensor_pin", 4)
	v.SetDefault("sensor_check_interval", 30)
	v.SetDefault("sensor_decimal_points", 2)
	v.SetDefault("temp_delta", 0.0)
	v.SetDefault("mqtt_hostname", "localhost")
	v.SetDefault("mqtt_port", 1883)
	v.SetDefault("mqtt_timeout", 60)
	v.SetDefault("mqtt_client_id", "dht-sensor-mqtt")
	v.SetDefault("mqtt_username", "")
	v.SetDefault("mqtt_password", "")
	v.SetDefault("client_qos", 0)
	v.SetDefault("client_clean_session", false)
	v.SetDefault("http_port", 8080)
	v.SetDefault("http_log", false)
}

func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zap.DebugLevel, nil
	case "INFO":
		return zap.InfoLevel, nil
	case "WARN":
		return zap.WarnLevel, nil
	case "ERROR":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, errors.Wrapf(domain.ErrConfiguration, "unsupported log level %q provided", level)
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.MQTT.Hostname) == "" || cfg.MQTT.Port == 0 {
		return errors.Wrap(domain.ErrConfiguration, "could not acquire MQTT broker connection parameters")
	}
	if cfg.MQTT.Port > 65535 {
		return errors.Wrapf(domain.ErrConfiguration, "invalid MQTT port %d", cfg.MQTT.Port)
	}
	if cfg.MQTT.QoS > MAX_QOS {
		return errors.Wrapf(domain.ErrConfiguration, "config param CLIENT_QOS should be <= %d", MAX_QOS)
	}
	if cfg.MQTT.TimeoutSeconds == 0 {
		return errors.Wrap(domain.ErrConfiguration, "config param MQTT_TIMEOUT should be > 0")
	}
	if cfg.Poll.IntervalSeconds == 0 {
		return errors.Wrap(domain.ErrConfiguration, "config param SENSOR_CHECK_INTERVAL should be >= 1")
	}
	if cfg.Poll.DecimalPoints > MAX_DECIMAL_POINTS {
		return errors.Wrapf(domain.ErrConfiguration, "config param SENSOR_DECIMAL_POINTS should be <= %d", MAX_DECIMAL_POINTS)
	}
	if cfg.Poll.SensorPin > MAX_GPIO_PIN {
		return errors.Wrap(domain.ErrConfiguration, "config param SENSOR_PIN out of range (gpio takes uint8 pin)")
	}
	if cfg.HTTP.Port > 65535 {
		return errors.Wrapf(domain.ErrConfiguration, "invalid HTTP port %d", cfg.HTTP.Port)
	}
	return nil
}
