package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration. Keys are the lower-case
// mapstructure paths, e.g. dealer_api.base_url, overridable as
// DMS_DEALER_API_BASE_URL.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	DealerAPI DealerAPIConfig `mapstructure:"dealer_api"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Printing  PrintingConfig  `mapstructure:"printing"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	RateLimitEnabled bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRPS     float64       `mapstructure:"rate_limit_rps"` // per client
	RateLimitBurst   int           `mapstructure:"rate_limit_burst"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	CORSOrigins      []string      `mapstructure:"cors_origins"`
}

// JWTConfig verifies console access tokens
type JWTConfig struct {
	Secret                string        `mapstructure:"secret"`
	Issuer                string        `mapstructure:"issuer"`
	AccessTokenExpiration time.Duration `mapstructure:"access_token_expiration"`
}

// DealerAPIConfig points at the dealership backend REST API
type DealerAPIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// PaymentConfig is the payment lifecycle policy
type PaymentConfig struct {
	DepositMinPercent        int           `mapstructure:"deposit_min_percent"`
	DepositMaxPercent        int           `mapstructure:"deposit_max_percent"`
	StockRecheckAttempts     int           `mapstructure:"stock_recheck_attempts"`
	StockRecheckInitialDelay time.Duration `mapstructure:"stock_recheck_initial_delay"`
	StockRecheckMultiplier   float64       `mapstructure:"stock_recheck_multiplier"`
	StockRecheckMaxDelay     time.Duration `mapstructure:"stock_recheck_max_delay"`
	ContractIdempotencyTTL   time.Duration `mapstructure:"contract_idempotency_ttl"`
}

type PrintingConfig struct {
	ChromeRemoteURL string        `mapstructure:"chrome_remote_url"` // empty launches a local headless Chrome
	Timeout         time.Duration `mapstructure:"timeout"`
	Location        string        `mapstructure:"location"` // place of signing
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
}

type StorageConfig struct {
	Driver      string        `mapstructure:"driver"` // fs, s3
	BasePath    string        `mapstructure:"base_path"`
	S3Bucket    string        `mapstructure:"s3_bucket"`
	S3Region    string        `mapstructure:"s3_region"`
	S3Endpoint  string        `mapstructure:"s3_endpoint"`
	S3AccessKey string        `mapstructure:"s3_access_key"`
	S3SecretKey string        `mapstructure:"s3_secret_key"`
	S3PathStyle bool          `mapstructure:"s3_path_style"`
	PresignTTL  time.Duration `mapstructure:"presign_ttl"`
}

// DatabaseConfig is the document registry connection
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres, sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig drives OTLP trace and metric export
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`
}

// defaults registers every key so AutomaticEnv can override keys that are
// absent from config.toml
var defaults = map[string]any{
	"app.name": "dms-backend",
	"app.env":  "development",
	"app.port": "8080",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout": 15 * time.Second,
	// final payment may render a contract inside the request
	"http.write_timeout":      60 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"http.max_body_size":      int64(2 << 20),
	"http.rate_limit_enabled": false,
	"http.rate_limit_rps":     10.0,
	"http.rate_limit_burst":   20,
	"http.trusted_proxies":    []string{},
	"http.cors_origins":       []string{},

	"jwt.secret":                  "",
	"jwt.issuer":                  "dms-auth",
	"jwt.access_token_expiration": 15 * time.Minute,

	"dealer_api.base_url":         "http://localhost:5000",
	"dealer_api.timeout":          15 * time.Second,
	"dealer_api.rate_limit_rps":   50.0,
	"dealer_api.rate_limit_burst": 100,

	"payment.deposit_min_percent":         10,
	"payment.deposit_max_percent":         30,
	"payment.stock_recheck_attempts":      3,
	"payment.stock_recheck_initial_delay": time.Second,
	"payment.stock_recheck_multiplier":    2.0,
	"payment.stock_recheck_max_delay":     4 * time.Second,
	"payment.contract_idempotency_ttl":    30 * 24 * time.Hour,

	"printing.chrome_remote_url": "",
	"printing.timeout":           30 * time.Second,
	"printing.location":          "Hà Nội",
	"printing.max_concurrent":    4,

	"storage.driver":        "fs",
	"storage.base_path":     "./data/documents",
	"storage.s3_bucket":     "",
	"storage.s3_region":     "",
	"storage.s3_endpoint":   "",
	"storage.s3_access_key": "",
	"storage.s3_secret_key": "",
	"storage.s3_path_style": false,
	"storage.presign_ttl":   15 * time.Minute,

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "dms",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "./data/dms.db",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "dms-backend",
	"telemetry.insecure":           false,
}

// Load reads config.toml from ., ./config or /etc/dms, then applies DMS_
// environment overrides on top of the defaults
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/etc/dms"} {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	return errors.Join(
		c.Database.validate(),
		c.Payment.validate(),
		c.Storage.validate(),
		c.validateEnvironment(),
		validateURL("dealer_api.base_url", c.DealerAPI.BaseURL),
		validateRatio("telemetry.sampling_ratio", c.Telemetry.SamplingRatio),
	)
}

func (d *DatabaseConfig) validate() error {
	switch {
	case d.Driver != "postgres" && d.Driver != "sqlite":
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", d.Driver)
	case d.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case d.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case d.MaxIdleConns > d.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

func (p *PaymentConfig) validate() error {
	if p.DepositMinPercent <= 0 || p.DepositMaxPercent > 100 || p.DepositMinPercent > p.DepositMaxPercent {
		return fmt.Errorf("payment deposit bounds must satisfy 0 < min (%d) <= max (%d) <= 100",
			p.DepositMinPercent, p.DepositMaxPercent)
	}
	if p.StockRecheckAttempts < 1 {
		return fmt.Errorf("payment.stock_recheck_attempts must be at least 1, got %d", p.StockRecheckAttempts)
	}
	if p.StockRecheckMultiplier < 1 {
		return fmt.Errorf("payment.stock_recheck_multiplier must be >= 1, got %g", p.StockRecheckMultiplier)
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Driver {
	case "fs":
		return nil
	case "s3":
		if s.S3Bucket == "" {
			return errors.New("storage.s3_bucket is required when storage.driver is s3")
		}
		return nil
	}
	return fmt.Errorf("storage.driver must be fs or s3, got %q", s.Driver)
}

// validateEnvironment applies the production-only requirements
func (c *Config) validateEnvironment() error {
	if c.App.Env != "production" {
		return nil
	}
	switch {
	case c.JWT.Secret == "":
		return errors.New("jwt.secret is required in production")
	case len(c.JWT.Secret) < 32:
		return errors.New("jwt.secret must be at least 32 characters in production")
	case c.Database.Driver == "postgres" && c.Database.SSLMode == "disable":
		return errors.New("database.sslmode cannot be 'disable' in production")
	}
	return nil
}

func validateURL(key, raw string) error {
	if _, err := url.ParseRequestURI(raw); err != nil {
		return fmt.Errorf("%s is invalid: %w", key, err)
	}
	return nil
}

func validateRatio(key string, ratio float64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %g", key, ratio)
	}
	return nil
}

// DSN is the sqlite file path or an escaped postgres URL
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoadDotEnv copies variables from the given dotenv files into the process
// environment. Variables that are already set win and missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
