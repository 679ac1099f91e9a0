// Package config loads the application configuration from a yaml file, an optional
// .env file and ACADEMY_* environment variables.
package config

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	DBSource      string         `mapstructure:"db_source"`
	ServerAddress string         `mapstructure:"server_address"`
	Log           LogConfig      `mapstructure:"log"`
	CORS          CORSConfig     `mapstructure:"cors"`
	Search        SearchConfig   `mapstructure:"search"`
	Batch         BatchConfig    `mapstructure:"batch"`
	Registry      RegistryConfig `mapstructure:"registry"`
	Geocoder      GeocoderConfig `mapstructure:"geocoder"`
	Redis         RedisConfig    `mapstructure:"redis"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig tunes the viewport search.
type SearchConfig struct {
	FetchCap       int    `mapstructure:"fetch_cap"`
	ResultCap      int    `mapstructure:"result_cap"`
	ReputationMode string `mapstructure:"reputation_mode"`
}

// BatchConfig configures the maintenance batch writers.
type BatchConfig struct {
	Size int `mapstructure:"size"`
}

// RegistryConfig configures the academy registry client.
type RegistryConfig struct {
	BaseURL     string   `mapstructure:"base_url"`
	APIKey      string   `mapstructure:"api_key"`
	PageSize    int      `mapstructure:"page_size"`
	MaxAttempts int      `mapstructure:"max_attempts"`
	TimeoutSecs int      `mapstructure:"timeout_secs"`
	RegionCodes []string `mapstructure:"region_codes"`
}

// GeocoderConfig configures the address geocoder.
type GeocoderConfig struct {
	BaseURL       string   `mapstructure:"base_url"`
	APIKey        string   `mapstructure:"api_key"`
	RatePerSecond float64  `mapstructure:"rate_per_second"`
	DailyLimit    int      `mapstructure:"daily_limit"`
	TimeoutSecs   int      `mapstructure:"timeout_secs"`
	RegionNames   []string `mapstructure:"region_names"`
}

// RedisConfig configures the optional geocode cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

// MaxBatchSize is the largest batch the store accepts per commit.
const MaxBatchSize = 500

// LoadConfig reads app.yaml from path. A .env file in path or in the working directory
// is loaded into the environment first; variables already set win.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(path, ".env"))
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("ACADEMY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_source", "")
	v.SetDefault("server_address", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("search.fetch_cap", 1000)
	v.SetDefault("search.result_cap", 1000)
	v.SetDefault("search.reputation_mode", "preload")
	v.SetDefault("batch.size", MaxBatchSize)
	v.SetDefault("registry.base_url", "https://open.neis.go.kr/hub/acaInsTiInfo")
	v.SetDefault("registry.api_key", "")
	v.SetDefault("registry.page_size", 1000)
	v.SetDefault("registry.max_attempts", 3)
	v.SetDefault("registry.timeout_secs", 30)
	v.SetDefault("registry.region_codes", []string{})
	v.SetDefault("geocoder.base_url", "https://dapi.kakao.com/v2/local/search/address.json")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.rate_per_second", 10.0)
	v.SetDefault("geocoder.daily_limit", 100000)
	v.SetDefault("geocoder.timeout_secs", 10)
	v.SetDefault("geocoder.region_names", []string{})
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_hours", 720)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that have no safe fallback and clamps the batch size
// to [1, MaxBatchSize].
func (c *Config) Validate() error {
	if c.Batch.Size < 1 || c.Batch.Size > MaxBatchSize {
		c.Batch.Size = MaxBatchSize
	}
	if c.Search.FetchCap <= 0 {
		return eris.Errorf("config: search.fetch_cap must be positive, got %d", c.Search.FetchCap)
	}
	if c.Search.ResultCap <= 0 {
		return eris.Errorf("config: search.result_cap must be positive, got %d", c.Search.ResultCap)
	}
	switch c.Search.ReputationMode {
	case "preload", "batched":
	default:
		return eris.Errorf("config: search.reputation_mode must be preload or batched, got %q", c.Search.ReputationMode)
	}
	if c.Registry.PageSize <= 0 || c.Registry.MaxAttempts <= 0 {
		return eris.New("config: registry.page_size and registry.max_attempts must be positive")
	}
	if c.Geocoder.RatePerSecond <= 0 {
		return eris.New("config: geocoder.rate_per_second must be positive")
	}
	return nil
}
