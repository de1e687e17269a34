package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	API struct {
		// BaseURL is the API origin every relative request path is joined to.
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
		// StrictDecoding fails requests whose JSON body cannot be decoded
		// instead of substituting an empty object.
		StrictDecoding bool `yaml:"strict_decoding"`
	} `yaml:"api"`
	Session struct {
		Store     string        `yaml:"store"`
		TokenFile string        `yaml:"token_file"`
		RedisKey  string        `yaml:"redis_key"`
		TTL       time.Duration `yaml:"ttl"`
		LoginPath string        `yaml:"login_path"`
	} `yaml:"session"`
	Redis struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		TLSEnabled  bool   `yaml:"tls_enabled"`
		TLSCertFile string `yaml:"tls_cert_file"`
	} `yaml:"redis"`
	Import struct {
		// RatePerSecond bounds how fast the importer creates listings.
		RatePerSecond float64 `yaml:"rate_per_second"`
		Burst         int     `yaml:"burst"`
	} `yaml:"import"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultTokenFile returns ~/.campo/session.token, falling back to the
// working directory when the home directory cannot be resolved.
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".campo", "session.token")
	}
	return filepath.Join(home, ".campo", "session.token")
}

// LoadConfig reads the YAML file at path, applies environment overrides,
// then overrides (e.g. command line flags), then defaults, and validates the
// result. A missing file is not an error.
func LoadConfig(path string, overrides ...func(*Config)) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %v", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(&cfg)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Override with environment variables if set
func applyEnv(cfg *Config) error {
	if v := os.Getenv("CAMPO_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CAMPO_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CAMPO_API_TIMEOUT value: %v", err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("CAMPO_STRICT_DECODING"); v != "" {
		cfg.API.StrictDecoding = v == "true"
	}
	if v := os.Getenv("CAMPO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CAMPO_TOKEN_STORE"); v != "" {
		cfg.Session.Store = v
	}
	if v := os.Getenv("CAMPO_TOKEN_FILE"); v != "" {
		cfg.Session.TokenFile = v
	}
	if v := os.Getenv("CAMPO_IMPORT_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CAMPO_IMPORT_RATE value: %v", err)
		}
		cfg.Import.RatePerSecond = r
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = port
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = db
	}
	if v := os.Getenv("REDIS_TLS_ENABLED"); v != "" {
		cfg.Redis.TLSEnabled = v == "true"
	}
	if v := os.Getenv("REDIS_TLS_CERT_FILE"); v != "" {
		cfg.Redis.TLSCertFile = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = "campo-cli/1.0"
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = TokenStoreFile
	}
	if cfg.Session.TokenFile == "" {
		cfg.Session.TokenFile = DefaultTokenFile()
	}
	if cfg.Session.RedisKey == "" {
		cfg.Session.RedisKey = "campo:session:token"
	}
	if cfg.Session.LoginPath == "" {
		cfg.Session.LoginPath = "/admin/login"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Import.RatePerSecond == 0 {
		cfg.Import.RatePerSecond = 2
	}
	if cfg.Import.Burst == 0 {
		cfg.Import.Burst = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
}

// Validate checks the settings the client cannot work without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("CAMPO_API_URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CAMPO_API_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}
	switch c.Session.Store {
	case TokenStoreFile, TokenStoreRedis, TokenStoreMemory:
	default:
		return fmt.Errorf("unknown token store %q (want file, redis or memory)", c.Session.Store)
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("REDIS_PORT must be between 1 and 65535")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.Redis.TLSEnabled && c.Redis.TLSCertFile != "" {
		if _, err := os.Stat(c.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", c.Redis.TLSCertFile)
		}
	}
	if c.Import.RatePerSecond < 0 || c.Import.Burst < 0 {
		return fmt.Errorf("import rate and burst must be non-negative")
	}
	return nil
}
