package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "jimakufetch/1.0 (+https://github.com/jimakufetch)"

// DefaultJimakuDomain is the base URL of the Jimaku catalog API.
const DefaultJimakuDomain = "https://jimaku.cc"

type Config struct {
	APIKey                string `mapstructure:"api_key"`
	JimakuDomain          string `mapstructure:"jimaku_domain"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	LogLevel              string `mapstructure:"log_level"`
	SentryDSN             string `mapstructure:"sentry_dsn"`
	RateLimit             struct {
		Interval string `mapstructure:"interval"` // Minimum spacing between catalog requests
		MaxWait  string `mapstructure:"max_wait"` // How long a request may wait for a slot
	} `mapstructure:"rate_limit"`
	Retry struct {
		MaxRetries int    `mapstructure:"max_retries"`
		BaseDelay  string `mapstructure:"base_delay"`
		MaxDelay   string `mapstructure:"max_delay"`
	} `mapstructure:"retry"`
	Cache struct {
		Provider      string `mapstructure:"provider"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		TTL           string `mapstructure:"ttl"`      // Go duration string like "1h", "24h", etc.
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

var logger zerolog.Logger

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()
}

// LoadConfig reads configuration from config.yaml and APP_-prefixed environment
// variables. The engine itself never calls this; only the CLI harness does.
// Library consumers construct a Config directly and hand it to provider.New.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("api_key", "JIMAKU_API_KEY")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("jimaku_domain", DefaultJimakuDomain)
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("rate_limit.interval", "1s")
	viper.SetDefault("rate_limit.max_wait", "1m")
	viper.SetDefault("retry.max_retries", 3)
	viper.SetDefault("retry.base_delay", "500ms")
	viper.SetDefault("retry.max_delay", "30s")
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 512)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("metrics.port", 9090)

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

// ConfigureLogging applies the configured log level to the package logger.
func ConfigureLogging(cfg *Config) {
	level := zerolog.InfoLevel // default
	if cfg.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", cfg.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)
	logger.Info().Str("level", level.String()).Msg("Logging configured")
}

func GetLogger() zerolog.Logger {
	return logger
}
