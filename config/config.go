package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Addr            string        `env:"LOAN_DESK_ADDR,default=:8080"`
	ReadTimeout     time.Duration `env:"LOAN_DESK_READ_TIMEOUT,default=15s"`
	WriteTimeout    time.Duration `env:"LOAN_DESK_WRITE_TIMEOUT,default=15s"`
	IdleTimeout     time.Duration `env:"LOAN_DESK_IDLE_TIMEOUT,default=60s"`
	ShutdownTimeout time.Duration `env:"LOAN_DESK_SHUTDOWN_TIMEOUT,default=10s"`

	LogLevel  string `env:"LOAN_DESK_LOG_LEVEL,default=info"`
	LogFormat string `env:"LOAN_DESK_LOG_FORMAT,default=text"`

	CacheBackend  string        `env:"LOAN_DESK_CACHE,default=memory"`
	RedisAddr     string        `env:"LOAN_DESK_REDIS_ADDR,default=localhost:6379"`
	RedisPassword string        `env:"LOAN_DESK_REDIS_PASSWORD"`
	RedisDB       int           `env:"LOAN_DESK_REDIS_DB,default=0"`
	SessionTTL    time.Duration `env:"LOAN_DESK_SESSION_TTL,default=2h"`
	SecureCookie  bool          `env:"LOAN_DESK_SECURE_COOKIE,default=false"`

	DocumentsURL      string   `env:"LOAN_DESK_DOCUMENTS_URL,default=mem://localhost/loan-desk/documents"`
	MaxUploadBytes    int64    `env:"LOAN_DESK_MAX_UPLOAD_BYTES,default=10485760"`
	AllowedExtensions []string `env:"LOAN_DESK_ALLOWED_EXTENSIONS,default=.pdf;.jpg;.jpeg;.png;.doc;.docx"`

	RateLimit       int           `env:"LOAN_DESK_RATE_LIMIT,default=120"`
	RateLimitWindow time.Duration `env:"LOAN_DESK_RATE_LIMIT_WINDOW,default=1m"`
	TrustProxy      bool          `env:"LOAN_DESK_TRUST_PROXY,default=false"`

	TracingEnabled bool   `env:"LOAN_DESK_TRACING,default=false"`
	TraceFile      string `env:"LOAN_DESK_TRACE_FILE"`

	DefaultAnnualRate float64 `env:"LOAN_DESK_DEFAULT_ANNUAL_RATE,default=10.5"`
}

// Load reads an optional .env file and decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported cache backend %q", c.CacheBackend)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.RateLimit <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("rate limit and window must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewLogger builds the application logger from the log settings.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
