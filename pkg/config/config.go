package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Viva         VivaConfig
	AdminJWT     AdminJWTConfig
	Storefront   StorefrontConfig
	Webhook      WebhookConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SEEDMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"SEEDMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SEEDMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SEEDMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SEEDMARKET_DB_DSN"`
	Driver string `envconfig:"SEEDMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SEEDMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"SEEDMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SEEDMARKET_DB_USER"`
	LegacyPassword string `envconfig:"SEEDMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"SEEDMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"SEEDMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SEEDMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SEEDMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SEEDMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SEEDMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SEEDMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SEEDMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"SEEDMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"SEEDMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SEEDMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SEEDMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SEEDMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SEEDMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SEEDMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// VivaConfig carries the payment provider credentials. Injected here so the
// client never reads process-wide state.
type VivaConfig struct {
	ClientID       string        `envconfig:"SEEDMARKET_VIVA_CLIENT_ID" required:"true"`
	ClientSecret   string        `envconfig:"SEEDMARKET_VIVA_CLIENT_SECRET" required:"true"`
	SourceCode     string        `envconfig:"SEEDMARKET_VIVA_SOURCE_CODE"`
	Env            string        `envconfig:"SEEDMARKET_VIVA_ENV" default:"demo"`
	RequestTimeout time.Duration `envconfig:"SEEDMARKET_VIVA_REQUEST_TIMEOUT" default:"15s"`
	SessionTimeout time.Duration `envconfig:"SEEDMARKET_VIVA_SESSION_TIMEOUT" default:"5m"`
}

// Environment returns the normalized provider environment (demo/production).
func (v VivaConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(v.Env))
	if env == "" {
		return "demo"
	}
	return env
}

type AdminJWTConfig struct {
	Secret string `envconfig:"SEEDMARKET_ADMIN_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"SEEDMARKET_ADMIN_JWT_ISSUER" default:"seedmarket"`
}

type StorefrontConfig struct {
	DefaultDomain string `envconfig:"SEEDMARKET_DEFAULT_DOMAIN" default:"en"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"SEEDMARKET_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SEEDMARKET_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
