package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the whole service configuration. Keys are read from config.toml
// and may be overridden by MA_<SECTION>_<KEY> environment variables, for
// example MA_DATABASE_PASSWORD.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Archival  ArchivalConfig  `mapstructure:"archival"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type AppConfig struct {
	Name          string `mapstructure:"name"`
	Env           string `mapstructure:"env"`
	Port          string `mapstructure:"port"`
	AutoMigrate   bool   `mapstructure:"auto_migrate"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"` // bounds the first connect and ping
}

// RedisConfig backs the session blacklist. With Enabled false the blacklist
// lives in process memory.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret                string        `mapstructure:"secret"`
	AccessTokenExpiration time.Duration `mapstructure:"access_token_expiration"`
	Issuer                string        `mapstructure:"issuer"`
}

// CookieConfig shapes the admin session cookie
type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Domain   string `mapstructure:"domain"` // empty means the request host
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"` // strict, lax or none
}

type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"` // public submissions per window
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"` // login attempts per window
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"` // empty admits no cross-origin caller
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"`
	AllowedIPs  []string `mapstructure:"allowed_ips"` // IPs or CIDRs, empty allows all
}

// StorageConfig selects where uploaded images and documents are kept
type StorageConfig struct {
	Backend          string        `mapstructure:"backend"` // local or s3
	LocalDir         string        `mapstructure:"local_dir"`
	PublicBaseURL    string        `mapstructure:"public_base_url"`
	MaxUploadSize    int64         `mapstructure:"max_upload_size"`
	AllowedTypes     []string      `mapstructure:"allowed_types"`
	S3Endpoint       string        `mapstructure:"s3_endpoint"`
	S3Region         string        `mapstructure:"s3_region"`
	S3Bucket         string        `mapstructure:"s3_bucket"`
	S3AccessKey      string        `mapstructure:"s3_access_key"`
	S3SecretKey      string        `mapstructure:"s3_secret_key"`
	S3UsePathStyle   bool          `mapstructure:"s3_use_path_style"`
	S3PresignExpires time.Duration `mapstructure:"s3_presign_expires"`
}

// AdminConfig is the administrator created on startup. An empty Email skips
// the bootstrap.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type ArchivalConfig struct {
	RetryEnabled     bool          `mapstructure:"retry_enabled"`
	BatchSize        int           `mapstructure:"batch_size"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	MaxRetries       int           `mapstructure:"max_retries"`
	CleanupRetention time.Duration `mapstructure:"cleanup_retention"`
	RetryRate        float64       `mapstructure:"retry_rate"`       // retries per second, 0 for unlimited
	ProcessingLease  time.Duration `mapstructure:"processing_lease"` // a PROCESSING job older than this is claimable again
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTLP gRPC, host:port
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"` // query values in spans, never in production
}

// ProfilingConfig drives the Pyroscope agent
type ProfilingConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	ServerAddress     string   `mapstructure:"server_address"`
	BasicAuthUser     string   `mapstructure:"basic_auth_user"`
	BasicAuthPassword string   `mapstructure:"basic_auth_password"`
	ProfileTypes      []string `mapstructure:"profile_types"`
	SpanProfiles      bool     `mapstructure:"span_profiles"`
}

// defaults registers every key. viper only resolves environment overrides
// for keys it knows about, so settings without a useful default are listed
// with their zero value.
var defaults = map[string]any{
	"app.name":           "mediaassoc-backend",
	"app.env":            "development",
	"app.port":           "8080",
	"app.auto_migrate":   false,
	"app.migrations_dir": "migrations",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "mediaassoc",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,
	"database.connect_timeout":    10 * time.Second,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                  "",
	"jwt.access_token_expiration": 12 * time.Hour,
	"jwt.issuer":                  "mediaassoc-backend",

	"cookie.name":      "ma_session",
	"cookie.domain":    "",
	"cookie.path":      "/",
	"cookie.secure":    false,
	"cookie.same_site": "lax",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":             15 * time.Second,
	"http.write_timeout":            30 * time.Second,
	"http.idle_timeout":             time.Minute,
	"http.request_timeout":          20 * time.Second,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            int64(12 << 20), // one full upload plus form overhead
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      20,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	"http.cors_allow_origins":       []string{},
	"http.cors_allow_methods":       []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers":       []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":          []string{},

	"swagger.enabled":      false,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"storage.backend":            "local",
	"storage.local_dir":          "./uploads",
	"storage.public_base_url":    "/uploads",
	"storage.max_upload_size":    int64(10 << 20),
	"storage.allowed_types":      []string{"image/jpeg", "image/png", "image/gif", "image/webp", "application/pdf", "text/csv"},
	"storage.s3_endpoint":        "",
	"storage.s3_region":          "us-east-1",
	"storage.s3_bucket":          "",
	"storage.s3_access_key":      "",
	"storage.s3_secret_key":      "",
	"storage.s3_use_path_style":  false,
	"storage.s3_presign_expires": time.Hour,

	"admin.email":    "",
	"admin.password": "",
	"admin.name":     "Administrator",

	"archival.retry_enabled":     false,
	"archival.batch_size":        50,
	"archival.poll_interval":     30 * time.Second,
	"archival.max_retries":       5,
	"archival.cleanup_retention": 7 * 24 * time.Hour,
	"archival.retry_rate":        0.0,
	"archival.processing_lease":  10 * time.Minute,

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "mediaassoc-backend",
	"telemetry.insecure":           false,
	"telemetry.metrics_enabled":    false,
	"telemetry.metrics_interval":   time.Minute,
	"telemetry.logs_enabled":       false,
	"telemetry.db_trace_enabled":   false,
	"telemetry.db_log_full_sql":    false,

	"profiling.enabled":             false,
	"profiling.server_address":      "",
	"profiling.basic_auth_user":     "",
	"profiling.basic_auth_password": "",
	"profiling.profile_types":       []string{},
	"profiling.span_profiles":       false,
}

// Load reads config.toml from ., ./config or /etc/mediaassoc, applies MA_
// environment overrides on top and validates the result. A missing file is
// fine; defaults and the environment are enough to run.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mediaassoc")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("MA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every problem at once so a bad deploy is fixed in one go
func (c *Config) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Database.MaxOpenConns <= 0 {
		fail("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		fail("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		fail("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			fail("storage.s3_bucket is required when storage.backend is s3")
		}
	default:
		fail("storage.backend must be 'local' or 's3', got %q", c.Storage.Backend)
	}

	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		fail("profiling.server_address is required when profiling is enabled")
	}
	if c.Admin.Email != "" && len(c.Admin.Password) < 8 {
		fail("admin.password must be at least 8 characters when admin.email is set")
	}
	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		fail("cookie.same_site=none requires cookie.secure=true")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		fail("telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		switch {
		case c.JWT.Secret == "":
			fail("jwt.secret is required in production")
		case len(c.JWT.Secret) < 32:
			fail("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			fail("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			fail("database.sslmode cannot be 'disable' in production")
		}
		if !c.Cookie.Secure {
			fail("cookie.secure must be true in production")
		}
		if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
			fail("http.cors_allow_origins cannot be '*' in production")
		}
		if c.Telemetry.DBLogFullSQL {
			fail("telemetry.db_log_full_sql must be false in production")
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			fail("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		}
	}

	return errors.Join(errs...)
}

// DSN is the postgres URL for this database with user info escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   d.DBName,
	}
	q := url.Values{"sslmode": {d.SSLMode}}
	if d.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(d.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisAddr is host:port for the redis client
func (r *RedisConfig) RedisAddr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}
