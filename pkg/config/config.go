package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Token         TokenConfig
	Password      PasswordConfig
	SendGrid      SendGridConfig
	Storage       StorageConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"FEIRA_APP_ENV" required:"true"`
	Port         string `envconfig:"FEIRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FEIRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FEIRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ServerConfig carries the externally visible base URL used when building
// activation and password-reset links in outbound mail.
type ServerConfig struct {
	BaseURL string `envconfig:"FEIRA_BASE_URL" default:"http://localhost:8080"`
}

type DBConfig struct {
	DSN    string `envconfig:"FEIRA_DB_DSN"`
	Driver string `envconfig:"FEIRA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FEIRA_DB_HOST"`
	LegacyPort     int    `envconfig:"FEIRA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FEIRA_DB_USER"`
	LegacyPassword string `envconfig:"FEIRA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FEIRA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FEIRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FEIRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FEIRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FEIRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FEIRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FEIRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FEIRA_REDIS_ADDR"`
	Password     string        `envconfig:"FEIRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FEIRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FEIRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FEIRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FEIRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FEIRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FEIRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"FEIRA_SESSION_COOKIE_NAME" default:"flsid"`
	TTL        time.Duration `envconfig:"FEIRA_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"FEIRA_SESSION_COOKIE_SECURE" default:"false"`
}

type TokenConfig struct {
	Secret           string        `envconfig:"FEIRA_TOKEN_SECRET" required:"true"`
	Issuer           string        `envconfig:"FEIRA_TOKEN_ISSUER" default:"feiralivre"`
	ActivationMaxAge time.Duration `envconfig:"FEIRA_TOKEN_ACTIVATION_MAX_AGE" default:"24h"`
	ResetMaxAge      time.Duration `envconfig:"FEIRA_TOKEN_RESET_MAX_AGE" default:"24h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FEIRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FEIRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FEIRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FEIRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FEIRA_ARGON_KEY_LEN" default:"32"`
}

type SendGridConfig struct {
	APIKey      string `envconfig:"FEIRA_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"FEIRA_SENDGRID_FROM_EMAIL" default:"contato@feiralivre.app"`
}

type StorageConfig struct {
	Backend   string `envconfig:"FEIRA_STORAGE_BACKEND" default:"local"`
	LocalDir  string `envconfig:"FEIRA_STORAGE_LOCAL_DIR" default:"uploads"`
	GCSBucket string `envconfig:"FEIRA_STORAGE_GCS_BUCKET"`

	GCPCredentialsJSON        string `envconfig:"FEIRA_GCP_CREDENTIALS_JSON"`
	GCPApplicationCredentials string `envconfig:"FEIRA_GOOGLE_APPLICATION_CREDENTIALS"`
}

// AuthRateLimitConfig throttles the credential-guessing surfaces. Zero
// values disable the corresponding limit.
type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FEIRA_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"FEIRA_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"FEIRA_RL_LOGIN_EMAIL_LIMIT" default:"5"`

	RegisterWindow  time.Duration `envconfig:"FEIRA_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit int           `envconfig:"FEIRA_RL_REGISTER_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FEIRA_AUTO_MIGRATE" default:"false"`
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
