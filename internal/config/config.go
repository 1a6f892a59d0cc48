// Package config loads the monitor's settings from configs/config.yml,
// PLANT_* environment variables and command-line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"plant_monitor/internal/evaluator"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PLANT"

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Sensor sources and moisture modes.
const (
	SourceSimulated = "simulated"
	SourceRemote    = "remote"

	MoisturePercentage = "percentage"
	MoistureBinary     = "binary"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type SamplerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type WateringConfig struct {
	IntervalHours  int  `mapstructure:"interval_hours"`
	HistoryDisplay int  `mapstructure:"history_display"`
	Auto           bool `mapstructure:"auto"`
}

type RNGConfig struct {
	// Seed fixes advisory selection; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type SensorConfig struct {
	Source       string        `mapstructure:"source"`
	MoistureMode string        `mapstructure:"moisture_mode"`
	RemoteAddr   string        `mapstructure:"remote_addr"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	Breaker      BreakerConfig `mapstructure:"breaker"`
}

type SensorServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         byte   `mapstructure:"qos"`
}

type InfluxConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	Org         string `mapstructure:"org"`
	Bucket      string `mapstructure:"bucket"`
	Measurement string `mapstructure:"measurement"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type PublishConfig struct {
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Influx InfluxConfig `mapstructure:"influx"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
}

// Config is the complete application configuration.
type Config struct {
	PlantID      string             `mapstructure:"plant_id"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Sampler      SamplerConfig      `mapstructure:"sampler"`
	Watering     WateringConfig     `mapstructure:"watering"`
	Rules        evaluator.Rules    `mapstructure:"rules"`
	RNG          RNGConfig          `mapstructure:"rng"`
	Sensor       SensorConfig       `mapstructure:"sensor"`
	SensorServer SensorServerConfig `mapstructure:"sensor_server"`
	Publish      PublishConfig      `mapstructure:"publish"`
}

func setDefaults(v *viper.Viper) {
	rules := evaluator.DefaultRules()

	defaults := map[string]any{
		"plant_id":                    "plant-1",
		"server.port":                 "8080",
		"log.level":                   "info",
		"storage.driver":              DriverMemory,
		"storage.sqlite_path":         "plant.db",
		"auth.signing_key":            "change-me",
		"auth.token_ttl":              time.Hour,
		"sampler.interval":            2 * time.Second,
		"watering.interval_hours":     evaluator.DefaultIntervalHours,
		"watering.history_display":    5,
		"watering.auto":               true,
		"rules.hot_above_c":           rules.HotAboveC,
		"rules.cold_below_c":          rules.ColdBelowC,
		"rules.dry_below_pct":         rules.DryBelowPct,
		"rules.humid_above_pct":       rules.HumidAbovePct,
		"rules.thirsty_below_pct":     rules.ThirstyBelowPct,
		"rules.soggy_above_pct":       rules.SoggyAbovePct,
		"rules.dark_below_lux":        rules.DarkBelowLux,
		"rules.bright_above_lux":      rules.BrightAboveLux,
		"rules.acidic_below_ph":       rules.AcidicBelowPH,
		"rules.alkaline_above_ph":     rules.AlkalineAbovePH,
		"rules.wet_advises":           rules.WetAdvises,
		"rng.seed":                    0,
		"sensor.source":               SourceSimulated,
		"sensor.moisture_mode":        MoisturePercentage,
		"sensor.remote_addr":          "127.0.0.1:65432",
		"sensor.dial_timeout":         3 * time.Second,
		"sensor.breaker.max_failures": 3,
		"sensor.breaker.open_timeout": 10 * time.Second,
		"sensor_server.enabled":       false,
		"sensor_server.addr":          "127.0.0.1:65432",
		"publish.mqtt.enabled":        false,
		"publish.mqtt.broker":         "tcp://localhost:1883",
		"publish.mqtt.client_id":      "plant-monitor",
		"publish.mqtt.username":       "",
		"publish.mqtt.password":       "",
		"publish.mqtt.topic_prefix":   "plants",
		"publish.mqtt.qos":            1,
		"publish.influx.enabled":      false,
		"publish.influx.url":          "http://localhost:8086",
		"publish.influx.token":        "",
		"publish.influx.org":          "",
		"publish.influx.bucket":       "plants",
		"publish.influx.measurement":  "plant_reading",
		"publish.kafka.enabled":       false,
		"publish.kafka.brokers":       []string{"localhost:9092"},
		"publish.kafka.topic":         "plant.snapshots",
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Load reads configuration. An empty path searches ./configs/config.yml and
// tolerates its absence; an explicit path must exist. bindings maps config
// keys (e.g. "server.port") to flags that override them when set.
func Load(path string, bindings map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, f := range bindings {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %q: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the monitor cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Sampler.Interval <= 0 {
		errs = append(errs, fmt.Errorf("sampler.interval must be positive, got %s", c.Sampler.Interval))
	}
	if !evaluator.ValidInterval(c.Watering.IntervalHours) {
		errs = append(errs, fmt.Errorf("watering.interval_hours must be between %d and %d, got %d",
			evaluator.MinIntervalHours, evaluator.MaxIntervalHours, c.Watering.IntervalHours))
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of memory, sqlite", c.Storage.Driver))
	}
	switch c.Sensor.Source {
	case SourceSimulated, SourceRemote:
	default:
		errs = append(errs, fmt.Errorf("sensor.source %q is not one of simulated, remote", c.Sensor.Source))
	}
	switch c.Sensor.MoistureMode {
	case MoisturePercentage, MoistureBinary:
	default:
		errs = append(errs, fmt.Errorf("sensor.moisture_mode %q is not one of percentage, binary", c.Sensor.MoistureMode))
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Publish.Kafka.Enabled && len(c.Publish.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("publish.kafka.brokers is required when kafka publishing is enabled"))
	}
	if c.Publish.Influx.Enabled && (c.Publish.Influx.Token == "" || c.Publish.Influx.Org == "") {
		errs = append(errs, errors.New("publish.influx.token and publish.influx.org are required when influx publishing is enabled"))
	}

	return errors.Join(errs...)
}
