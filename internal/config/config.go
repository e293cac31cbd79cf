package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Vault     VaultConfig     `mapstructure:"vault"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Password  PasswordConfig  `mapstructure:"password"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Audit     AuditConfig     `mapstructure:"audit"`
}

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	Environment     string   `mapstructure:"environment"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // in seconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // in seconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // in seconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// Address returns the host:port the HTTP server listens on.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"` // in minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type VaultConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`  // KV v2 mount, e.g. "secret"
	SecretPath string `mapstructure:"secret_path"` // path under the mount, e.g. "admin-auth"
	SecretKey  string `mapstructure:"secret_key"`  // field holding the signing secret
}

type JWTConfig struct {
	Secret       string `mapstructure:"secret"`
	ExpirationMS int64  `mapstructure:"expiration_ms"`
}

// TTL returns the configured token lifetime.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationMS) * time.Millisecond
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type CacheConfig struct {
	// PrincipalTTLSeconds lets the authentication pipeline reuse a looked-up admin record
	// for that long. 0, the default, disables the cache. Login always reads the store.
	PrincipalTTLSeconds int `mapstructure:"principal_ttl_seconds"`
}

type RateLimitConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	LoginAttemptsPerMin int  `mapstructure:"login_attempts_per_min"`
	LocalFallback       bool `mapstructure:"local_fallback"`
}

type SecurityConfig struct {
	// ProtectedPrefixes lists route prefixes that require an authenticated identity.
	ProtectedPrefixes []string `mapstructure:"protected_prefixes"`
	PhoneRegion       string   `mapstructure:"phone_region"`
}

type BootstrapConfig struct {
	Identifier   string `mapstructure:"identifier"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// AuditConfig selects where login audit events go besides the log.
type AuditConfig struct {
	// Persist stores events in the auth_audit_events table.
	Persist    bool        `mapstructure:"persist"`
	SigningKey string      `mapstructure:"signing_key"`
	Kafka      KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	Topic           string   `mapstructure:"topic"`
	WriteTimeoutMS  int      `mapstructure:"write_timeout_ms"`
	BatchTimeoutMS  int      `mapstructure:"batch_timeout_ms"`
	RequiredAcks    int      `mapstructure:"required_acks"`
	AutoCreateTopic bool     `mapstructure:"auto_create_topic"`
}

func (c *KafkaConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Brokers, validation.Required),
		validation.Field(&c.Topic, validation.Required),
		validation.Field(&c.RequiredAcks, validation.In(-1, 0, 1)),
	)
}

// Validate checks for essential configuration values. The signing secret is checked
// separately by ValidateSigningSecret because it may be loaded from Vault after the
// file and environment have been read.
func (c *Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		),
		"database": validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.Driver, validation.Required, validation.In("postgres", "sqlite")),
		),
		"jwt": validation.ValidateStruct(&c.JWT,
			validation.Field(&c.JWT.ExpirationMS, validation.Required, validation.Min(int64(1000)), validation.By(wholeSeconds)),
		),
		"password": validation.ValidateStruct(&c.Password,
			validation.Field(&c.Password.BcryptCost, validation.Min(4), validation.Max(31)),
		),
		"cache": validation.ValidateStruct(&c.Cache,
			validation.Field(&c.Cache.PrincipalTTLSeconds, validation.Min(0)),
		),
		"vault": c.Vault.validate(),
		"audit": c.Audit.Kafka.validate(),
	}.Filter()
}

func (c *VaultConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.SecretPath, validation.Required),
		validation.Field(&c.SecretKey, validation.Required),
	)
}

// wholeSeconds rejects millisecond values that JWT NumericDate cannot represent.
func wholeSeconds(value interface{}) error {
	ms, _ := value.(int64)
	if ms%1000 != 0 {
		return fmt.Errorf("must be a multiple of 1000")
	}
	return nil
}

// ValidateSigningSecret fails when no signing secret is configured. A missing secret is
// a startup failure, never a per-request one.
func (c *Config) ValidateSigningSecret() error {
	return validation.ValidateStruct(&c.JWT,
		validation.Field(&c.JWT.Secret, validation.Required),
	)
}
