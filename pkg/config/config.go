package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"FinScore/pkg/util"
)

const (
	ModeMock = "mock"
	ModeReal = "real"

	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"required"`
	Log         LogConfig     `yaml:"log"`
	Server      ServerConfig  `yaml:"server"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Data        DataConfig    `yaml:"data"`
	Gate        GateConfig    `yaml:"gate"`
	Polygon     PolygonConfig `yaml:"polygon"`
	SEC         SECConfig     `yaml:"sec"`
	Quotes      QuotesConfig  `yaml:"quotes"`
	Cache       CacheConfig   `yaml:"cache"`
	Refresh     RefreshConfig `yaml:"refresh"`
	Kafka       KafkaConfig   `yaml:"kafka"`
	API         APIConfig     `yaml:"api"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stdout"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// DataConfig selects the upstream variant and the fixed ticker universe.
type DataConfig struct {
	Mode     string   `yaml:"mode" default:"mock" validate:"oneof=mock real"`
	Universe []string `yaml:"universe"`
	SeedPath string   `yaml:"seed_path" default:"data/cik_seed.json"`
}

type GateConfig struct {
	Interval time.Duration `yaml:"interval" default:"12s"`
}

type PolygonConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url" default:"https://api.polygon.io"`
	Timeout      time.Duration `yaml:"timeout" default:"15s"`
	BulkAttempts int           `yaml:"bulk_attempts" default:"7" validate:"gte=1,lte=30"`
}

type SECConfig struct {
	UserAgent  string        `yaml:"user_agent"`
	BaseURL    string        `yaml:"base_url" default:"https://data.sec.gov"`
	TickersURL string        `yaml:"tickers_url" default:"https://www.sec.gov/files/company_tickers.json"`
	Timeout    time.Duration `yaml:"timeout" default:"30s"`
}

type QuotesConfig struct {
	TTL       time.Duration `yaml:"ttl" default:"10m"`
	CacheName string        `yaml:"cache_name" default:"universe-quotes"`
}

type CacheConfig struct {
	Backend  string      `yaml:"backend" default:"file" validate:"oneof=file redis"`
	FilePath string      `yaml:"file_path" default:"data/cache.json"`
	Redis    RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"finscore"`
}

type RefreshConfig struct {
	Schedule       string `yaml:"schedule" default:"@every 1h"`
	ForceScheduled bool   `yaml:"force_scheduled"`
	PreloadOnStart bool   `yaml:"preload_on_start" default:"true"`
}

type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"finscore.enriched"`
	Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
}

type APIConfig struct {
	RefreshBurst     float64 `yaml:"refresh_burst" default:"3"`
	RefreshPerSecond float64 `yaml:"refresh_per_second" default:"0.1"`
}

var validate = validator.New()

// Default returns a config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Data.Universe) == 0 {
		c.Data.Universe = append([]string(nil), DefaultUniverse...)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the struct defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(c.Data.Universe) == 0 {
		c.Data.Universe = append([]string(nil), DefaultUniverse...)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env (if present), then YAML, then applies environment overrides.
// A missing YAML file falls back to defaults.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	var (
		c   *Config
		err error
	)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATA_MODE"); v != "" {
		c.Data.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		c.Polygon.APIKey = v
	}
	if v := os.Getenv("SEC_USER_AGENT"); v != "" {
		c.SEC.UserAgent = v
	}
	if v := os.Getenv("UNIVERSE"); v != "" {
		c.Data.Universe = splitList(strings.ToUpper(v))
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if len(c.Data.Universe) == 0 {
		return fmt.Errorf("data.universe cannot be empty")
	}
	if c.Data.Mode == ModeReal {
		if c.Polygon.APIKey == "" {
			return fmt.Errorf("polygon.api_key is required in real mode")
		}
		if c.SEC.UserAgent == "" {
			return fmt.Errorf("sec.user_agent is required in real mode")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// IsMock reports whether upstream calls are synthesized locally.
func (c *Config) IsMock() bool { return c.Data.Mode != ModeReal }

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
