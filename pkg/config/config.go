package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "usersvc"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cognito      CognitoConfig
	RateLimit    RateLimitConfig
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
	if err := cfg.Cognito.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"USERSVC_APP_ENV" required:"true"`
	Port         string `envconfig:"USERSVC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"USERSVC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"USERSVC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"USERSVC_DB_DSN"`
	Driver string `envconfig:"USERSVC_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"USERSVC_DB_HOST"`
	Port     int    `envconfig:"USERSVC_DB_PORT" default:"5432"`
	User     string `envconfig:"USERSVC_DB_USER"`
	Password string `envconfig:"USERSVC_DB_PASSWORD"`
	Name     string `envconfig:"USERSVC_DB_NAME"`
	SSLMode  string `envconfig:"USERSVC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"USERSVC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"USERSVC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"USERSVC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"USERSVC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from discrete settings when none was provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"USERSVC_REDIS_URL"`
	Address      string        `envconfig:"USERSVC_REDIS_ADDR"`
	Password     string        `envconfig:"USERSVC_REDIS_PASSWORD"`
	DB           int           `envconfig:"USERSVC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"USERSVC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"USERSVC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"USERSVC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"USERSVC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"USERSVC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CognitoConfig points the verifier at the user pool that signs our tokens.
// Signature checking is delegated to the pool's published JWKS; this service
// never holds signing material of its own.
type CognitoConfig struct {
	Region     string `envconfig:"USERSVC_COGNITO_REGION"`
	UserPoolID string `envconfig:"USERSVC_COGNITO_USER_POOL_ID"`
	ClientID   string `envconfig:"USERSVC_COGNITO_CLIENT_ID"`

	// DevSecret switches the verifier to HS256 for local development where
	// no user pool is reachable. Ignored in prod.
	DevSecret string `envconfig:"USERSVC_COGNITO_DEV_SECRET"`

	JWKSRefresh time.Duration `envconfig:"USERSVC_COGNITO_JWKS_REFRESH" default:"1h"`
}

func (c CognitoConfig) validate() error {
	if c.DevSecret != "" {
		return nil
	}
	if c.Region == "" || c.UserPoolID == "" {
		return fmt.Errorf("cognito region and user pool id are required")
	}
	return nil
}

// IssuerURL returns the expected iss claim for the configured pool.
func (c CognitoConfig) IssuerURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL returns the pool's published key set endpoint.
func (c CognitoConfig) JWKSURL() string {
	return c.IssuerURL() + "/.well-known/jwks.json"
}

type RateLimitConfig struct {
	SubmitWindow    time.Duration `envconfig:"USERSVC_RATE_LIMIT_SUBMIT_WINDOW" default:"1m"`
	SubmitUserLimit int           `envconfig:"USERSVC_RATE_LIMIT_SUBMIT_USER_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"USERSVC_AUTO_MIGRATE" default:"false"`
}
