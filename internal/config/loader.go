package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
)

// EnvPrefix is prepended to every environment override, e.g. ADMIN_AUTH_JWT_SECRET.
const EnvPrefix = "ADMIN_AUTH"

// LoadConfig loads the configuration from file and environment variables.
// An explicit path wins over the default search locations.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/admin-auth/")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInvalidConfig.WithError(err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInvalidConfig.WithMessage("failed to unmarshal config").WithError(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ErrInvalidConfig.WithError(err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.shutdown_timeout", 30)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "admin_auth")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "admin-auth.db")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", 30)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "")
	v.SetDefault("vault.secret_key", "jwt_secret")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_ms", constants.DefaultTokenTTL.Milliseconds())

	v.SetDefault("password.bcrypt_cost", 10)

	v.SetDefault("cache.principal_ttl_seconds", 0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.login_attempts_per_min", constants.DefaultLoginAttemptsPerMinute)
	v.SetDefault("rate_limit.local_fallback", true)

	v.SetDefault("security.protected_prefixes", []string{constants.DefaultProtectedPrefix})
	v.SetDefault("security.phone_region", "IN")

	v.SetDefault("bootstrap.identifier", "")
	v.SetDefault("bootstrap.password_hash", "")
	v.SetDefault("bootstrap.role", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "admin-auth")
	v.SetDefault("tracing.sampling_rate", 1.0)

	v.SetDefault("audit.persist", false)
	v.SetDefault("audit.signing_key", "")
	v.SetDefault("audit.kafka.enabled", false)
	v.SetDefault("audit.kafka.topic", "admin-auth-audit")
	v.SetDefault("audit.kafka.write_timeout_ms", 5000)
	v.SetDefault("audit.kafka.batch_timeout_ms", 50)
	v.SetDefault("audit.kafka.required_acks", 1)
	v.SetDefault("audit.kafka.auto_create_topic", false)
}
