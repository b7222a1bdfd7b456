package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrConfigNotFound = errors.New("config file not found")

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Throttle   ThrottleConfig   `mapstructure:"throttle"`
	Versioning VersioningConfig `mapstructure:"versioning"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Type        string `mapstructure:"type"`
	SecretKey   string `mapstructure:"secret_key"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type ThrottleConfig struct {
	Store     string                 `mapstructure:"store"`
	KeyPrefix string                 `mapstructure:"key_prefix"`
	Rates     map[string]interface{} `mapstructure:"rates"`
	Breaker   BreakerConfig          `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type VersioningConfig struct {
	Default   string   `mapstructure:"default"`
	Supported []string `mapstructure:"supported"`
	IPRate    string   `mapstructure:"ip_rate"`
}

var globalConfig Config

// Load reads config.yaml from configPath, ./config or the working directory
// and overlays environment variables (server.port -> SERVER_PORT). When no
// file exists the defaults and environment still apply and the returned error
// wraps ErrConfigNotFound.
func Load(configPath string) error {
	setDefaultValues()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var notFound error
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file config.yaml: %w", err)
		}
		notFound = fmt.Errorf("%w: using defaults and environment variables", ErrConfigNotFound)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	globalConfig = cfg

	return notFound
}

func setDefaultValues() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.metrics_port", 9090)
	viper.SetDefault("server.type", "throttlegate")
	viper.SetDefault("server.secret_key", "")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.enable_latency", true)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.tls", false)

	viper.SetDefault("throttle.store", "redis")
	viper.SetDefault("throttle.key_prefix", "app_cache:")
	viper.SetDefault("throttle.rates", map[string]interface{}{
		"user": "100/hour",
		"anon": "10/hour",
	})
	viper.SetDefault("throttle.breaker.max_failures", 5)
	viper.SetDefault("throttle.breaker.timeout", "30s")

	viper.SetDefault("versioning.default", "v1")
	viper.SetDefault("versioning.supported", []string{"v1", "v2"})
	viper.SetDefault("versioning.ip_rate", "60/minute")
}

func GetConfig() *Config {
	return &globalConfig
}
