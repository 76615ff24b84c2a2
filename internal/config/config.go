package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/mixsearch/internal/constants"
)

type SearchConfig struct {
	ResultLimit   int    `yaml:"result_limit"   json:"result_limit"`
	CategoryLimit int    `yaml:"category_limit" json:"category_limit"`
	PhoneRegion   string `yaml:"phone_region"   json:"phone_region"`
}

type APIConfig struct {
	BaseURL       string        `yaml:"base_url"        json:"base_url"`
	UserID        string        `yaml:"user_id"         json:"user_id"`
	SessionID     string        `yaml:"session_id"      json:"session_id"`
	SessionSecret string        `yaml:"session_secret"  json:"-"`
	Timeout       time.Duration `yaml:"timeout"         json:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second" json:"rate_per_second"`
	CacheSize     int           `yaml:"cache_size"      json:"cache_size"`
	CacheTTL      time.Duration `yaml:"cache_ttl"       json:"cache_ttl"`
}

type LogConfig struct {
	Level       string `yaml:"level"       json:"level"`
	Development bool   `yaml:"development" json:"development"`
	Path        string `yaml:"path"        json:"path"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Config struct {
	Database string        `yaml:"database" json:"database"`
	Search   SearchConfig  `yaml:"search"   json:"search"`
	API      APIConfig     `yaml:"api"      json:"api"`
	Log      LogConfig     `yaml:"log"      json:"log"`
	Metrics  MetricsConfig `yaml:"metrics"  json:"metrics"`

	home string `yaml:"-"`
}

// ValidLogLevels are the levels accepted for log.level.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used for an empty config file.
func Default(home string) *Config {
	cfg := &Config{home: home}
	cfg.ensureDefaults()
	return cfg
}

func (cfg *Config) ensureDefaults() {
	dir := filepath.Join(cfg.home, constants.ConfigDir)
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = filepath.Join(dir, constants.DatabaseFile)
	}
	cfg.Database = expandHome(cfg.Database, cfg.home)

	if cfg.Search.ResultLimit <= 0 {
		cfg.Search.ResultLimit = constants.ResultLimit
	}
	if cfg.Search.CategoryLimit <= 0 {
		cfg.Search.CategoryLimit = constants.CategoryLimit
	}
	cfg.Search.PhoneRegion = strings.ToUpper(strings.TrimSpace(cfg.Search.PhoneRegion))
	if cfg.Search.PhoneRegion == "" {
		cfg.Search.PhoneRegion = constants.DefaultPhoneRegion
	}

	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = constants.DefaultAPIBaseURL
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.API.RatePerSecond < 0 {
		cfg.API.RatePerSecond = 0
	}
	if cfg.API.CacheSize <= 0 {
		cfg.API.CacheSize = 128
	}
	if cfg.API.CacheTTL <= 0 {
		cfg.API.CacheTTL = 5 * time.Minute
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.Path) == "" {
		cfg.Log.Path = filepath.Join(dir, constants.LogFile)
	}
	cfg.Log.Path = expandHome(cfg.Log.Path, cfg.home)
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks values that defaults can't repair.
func (cfg *Config) Validate() error {
	if err := ValidateRegion(cfg.Search.PhoneRegion); err != nil {
		return err
	}
	return ValidateLogLevel(cfg.Log.Level)
}

func ValidateRegion(region string) error {
	if phonenumbers.GetCountryCodeForRegion(strings.ToUpper(region)) == 0 {
		return fmt.Errorf("invalid phone region: %q. Please use a two letter region code such as 'US'", region)
	}
	return nil
}

func ValidateLogLevel(level string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf(
			"invalid log level: %q. Please choose from %s",
			level,
			strings.Join(ValidLogLevels, ", "),
		)
	}
	return nil
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) != 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.home = home
	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.syncViper()
	return cfg, nil
}

// syncViper registers the file values as viper defaults so bound flags and
// MIXSEARCH_* environment variables take precedence.
func (cfg *Config) syncViper() {
	viper.SetDefault("database", cfg.Database)
	viper.SetDefault("search.result_limit", cfg.Search.ResultLimit)
	viper.SetDefault("search.category_limit", cfg.Search.CategoryLimit)
	viper.SetDefault("search.phone_region", cfg.Search.PhoneRegion)
	viper.SetDefault("api.base_url", cfg.API.BaseURL)
	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.path", cfg.Log.Path)
	viper.SetDefault("metrics.addr", cfg.Metrics.Addr)
}

// ApplyOverrides copies flag and environment overrides from viper into the
// config.
func (cfg *Config) ApplyOverrides() error {
	cfg.Database = expandHome(viper.GetString("database"), cfg.home)
	cfg.Search.ResultLimit = viper.GetInt("search.result_limit")
	cfg.Search.CategoryLimit = viper.GetInt("search.category_limit")
	cfg.Search.PhoneRegion = viper.GetString("search.phone_region")
	cfg.API.BaseURL = viper.GetString("api.base_url")
	cfg.Log.Level = viper.GetString("log.level")
	cfg.Log.Path = expandHome(viper.GetString("log.path"), cfg.home)
	cfg.Metrics.Addr = viper.GetString("metrics.addr")

	cfg.ensureDefaults()
	return cfg.Validate()
}

func (cfg *Config) GetConfigPath() string {
	return GetConfigPath(cfg.home)
}

func (cfg *Config) ChangeRegion(region string) error {
	region = strings.ToUpper(strings.TrimSpace(region))
	if err := ValidateRegion(region); err != nil {
		return err
	}
	cfg.Search.PhoneRegion = region
	return cfg.Save()
}

func (cfg *Config) ChangeLogLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if err := ValidateLogLevel(level); err != nil {
		return err
	}
	cfg.Log.Level = level
	return cfg.Save()
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}
