package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/lumenlab/glossa/internal/core"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Backend  BackendConfig  `yaml:"backend"`
	Limits   LimitsConfig   `yaml:"limits"`
	Cache    CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AuthConfig holds the shared signing secret for bearer tokens.
// StaticIdentities is a development fallback used when no Postgres DSN is
// configured; production deployments resolve identities from the user store.
type AuthConfig struct {
	Secret           string          `yaml:"secret"`
	StaticIdentities []core.Identity `yaml:"static_identities,omitempty"`
}

func (c *AuthConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	return nil
}

type RedisConfig struct {
	// Addr is the Redis address (host:port). When empty, counters and cache
	// entries are kept in process memory -- fine for a single node, useless
	// behind a load balancer.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PostgresConfig struct {
	// DSN for the user store. When empty, auth.static_identities is used.
	DSN string `yaml:"dsn"`
}

type BackendConfig struct {
	// BaseURL of the compute backend (AI chat / translation service).
	BaseURL string `yaml:"base_url"`

	// Timeout is the default per-call deadline. Calls exceeding it fail
	// with a timeout classification and are never cached.
	Timeout time.Duration `yaml:"timeout"`
}

func (c *BackendConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	return nil
}

// WindowLimit is a fixed-window ceiling: at most Max requests per Window.
type WindowLimit struct {
	Window time.Duration `yaml:"window"`
	Max    int64         `yaml:"max"`
}

func (l WindowLimit) Validate(name string) error {
	if l.Window <= 0 {
		return fmt.Errorf("limits.%s.window must be positive", name)
	}
	if l.Max <= 0 {
		return fmt.Errorf("limits.%s.max must be positive", name)
	}
	return nil
}

// SessionLimits are per-login-session ceilings on authenticated users.
// They are not time-windowed; a counter clears only on logout.
type SessionLimits struct {
	Message int64 `yaml:"message"`
	Upload  int64 `yaml:"upload"`
	API     int64 `yaml:"api"`
}

// LocalGuardConfig is the in-process token bucket placed in front of the
// shared store.
type LocalGuardConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LimitsConfig struct {
	API     WindowLimit      `yaml:"api"`
	Auth    WindowLimit      `yaml:"auth"`
	Upload  WindowLimit      `yaml:"upload"`
	Message WindowLimit      `yaml:"message"`
	Session SessionLimits    `yaml:"session"`
	Local   LocalGuardConfig `yaml:"local"`
}

func (c *LimitsConfig) Validate() error {
	if err := c.API.Validate("api"); err != nil {
		return err
	}
	if err := c.Auth.Validate("auth"); err != nil {
		return err
	}
	if err := c.Upload.Validate("upload"); err != nil {
		return err
	}
	if err := c.Message.Validate("message"); err != nil {
		return err
	}
	if c.Session.Message <= 0 || c.Session.Upload <= 0 || c.Session.API <= 0 {
		return fmt.Errorf("limits.session ceilings must be positive")
	}
	return nil
}

// CacheConfig holds the per-kind TTLs for the response cache.
type CacheConfig struct {
	UserTTL         time.Duration `yaml:"user_ttl"`
	ConversationTTL time.Duration `yaml:"conversation_ttl"`
	AITTL           time.Duration `yaml:"ai_ttl"`
	TranslationTTL  time.Duration `yaml:"translation_ttl"`
}

// Default returns the built-in configuration. The limit values mirror what
// the service has always enforced: general API 100/15m, auth attempts 5/15m,
// uploads 10/1h, messages 20/1m; session ceilings message 20, upload 10,
// api 100.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Backend: BackendConfig{
			Timeout: 30 * time.Second,
		},
		Limits: LimitsConfig{
			API:     WindowLimit{Window: 15 * time.Minute, Max: 100},
			Auth:    WindowLimit{Window: 15 * time.Minute, Max: 5},
			Upload:  WindowLimit{Window: time.Hour, Max: 10},
			Message: WindowLimit{Window: time.Minute, Max: 20},
			Session: SessionLimits{Message: 20, Upload: 10, API: 100},
			Local:   LocalGuardConfig{RPS: 50, Burst: 100},
		},
		Cache: CacheConfig{
			UserTTL:         time.Hour,
			ConversationTTL: 30 * time.Minute,
			AITTL:           2 * time.Hour,
			TranslationTTL:  24 * time.Hour,
		},
	}
}

// Load reads and parses the configuration file at the given path, applying
// defaults for anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	return nil
}
