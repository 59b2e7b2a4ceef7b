// Package config loads shopbot settings from defaults, an optional
// shopbot.yaml, an optional .env file and SHOPBOT_* environment variables,
// in increasing order of precedence. Command-line flags bound to the same
// viper keys win over all of them.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aretw0/shopbot/internal/logging"
)

// EnvPrefix namespaces environment overrides (SHOPBOT_STORE_DRIVER, ...).
const EnvPrefix = "SHOPBOT"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Bot     BotConfig     `mapstructure:"bot"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Input   InputConfig   `mapstructure:"input"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type BotConfig struct {
	ID      string `mapstructure:"id"`
	Welcome string `mapstructure:"welcome"`
}

type StoreConfig struct {
	Driver string        `mapstructure:"driver"`
	Path   string        `mapstructure:"path"`
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
	// EncryptionKey is a hex encoded 32-byte AES key. Empty disables encryption.
	EncryptionKey string `mapstructure:"encryption_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type InputConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every known key, which also makes them visible to
// AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(logging.FormatText))
	v.SetDefault("http.port", 3978)
	v.SetDefault("bot.id", "shopbot")
	v.SetDefault("bot.welcome", "")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.path", "")
	v.SetDefault("store.ttl", time.Duration(0))
	v.SetDefault("store.prefix", "")
	v.SetDefault("store.encryption_key", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("input.max_size", 4096)
	v.SetDefault("catalog.path", "")
}

// Options controls where Load looks for files.
type Options struct {
	// ConfigFile is an explicit config path. When empty, shopbot.yaml is
	// searched in the working directory and missing files are not an error.
	ConfigFile string
	// EnvFile is loaded into the process environment when it exists.
	EnvFile string
}

// Load reads the configuration into a Config and validates it.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("shopbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
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

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverBolt, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("%w: store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("%w: store.ttl must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Store.Key(); err != nil {
		return err
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port %d", ErrInvalidConfig, c.HTTP.Port)
	}
	if c.Input.MaxSize < 0 {
		return fmt.Errorf("%w: input.max_size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Key decodes the encryption key. It returns nil when encryption is off.
func (s StoreConfig) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: store.encryption_key is not hex: %v", ErrInvalidConfig, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: store.encryption_key must be 32 bytes, got %d", ErrInvalidConfig, len(key))
	}
	return key, nil
}
