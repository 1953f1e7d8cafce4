package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ReadinessConfig drives the bootstrap handshake: the node answers /ping on
// Port and waits for both neighbors' ping endpoints before sending its
// first probe.
type ReadinessConfig struct {
	Port         int
	LeftAddress  string
	RightAddress string
	PollInterval time.Duration
	Timeout      time.Duration
}

type Config struct {
	ID                uint64
	LeftID            uint64
	RightID           uint64
	MiddlewareAddress string
	LogLevel          string
	Readiness         ReadinessConfig
}

func (c Config) String() string {
	return fmt.Sprintf(
		"[CONFIG: ID: %d | Left: %d | Right: %d | Middleware: %s | LogLevel: %s]",
		c.ID,
		c.LeftID,
		c.RightID,
		c.MiddlewareAddress,
		c.LogLevel,
	)
}

const CONFIG_FILE_PATH = "./config.yaml"

func InitConfig(configFilePath string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = godotenv.Load(".env")
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("readiness.poll_interval", 100)
	v.SetDefault("readiness.timeout", 30000)

	configFile := CONFIG_FILE_PATH
	if configFilePath != "" {
		configFile = configFilePath
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}

	// Bind env vars to config keys
	v.BindEnv("id", "ID")
	v.BindEnv("left.id", "LEFT_ID")
	v.BindEnv("right.id", "RIGHT_ID")
	v.BindEnv("middleware.address", "MIDDLEWARE_ADDRESS")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("readiness.port", "READINESS_PORT")
	v.BindEnv("readiness.left_address", "READINESS_LEFT_ADDRESS")
	v.BindEnv("readiness.right_address", "READINESS_RIGHT_ADDRESS")

	readinessConf := ReadinessConfig{
		Port:         v.GetInt("readiness.port"),
		LeftAddress:  v.GetString("readiness.left_address"),
		RightAddress: v.GetString("readiness.right_address"),
		PollInterval: time.Duration(v.GetInt("readiness.poll_interval")) * time.Millisecond,
		Timeout:      time.Duration(v.GetInt("readiness.timeout")) * time.Millisecond,
	}

	config := &Config{
		ID:                v.GetUint64("id"),
		LeftID:            v.GetUint64("left.id"),
		RightID:           v.GetUint64("right.id"),
		MiddlewareAddress: v.GetString("middleware.address"),
		LogLevel:          v.GetString("log.level"),
		Readiness:         readinessConf,
	}

	// A node may be its own neighbor only in a ring of size one, in which
	// case it is both neighbors at once.
	if (config.LeftID == config.ID) != (config.RightID == config.ID) {
		return nil, errors.New("inconsistent neighbor configuration: node is its own neighbor on one side only")
	}

	return config, nil
}
