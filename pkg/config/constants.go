package config

const (
	// EnvPrefix is intentionally empty: every field carries its full
	// FEIRA_-prefixed variable name in its envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendLocal = "local"
	StorageBackendGCS   = "gcs"

	EnvAppEnv      = "FEIRA_APP_ENV"
	EnvPort        = "FEIRA_APP_PORT"
	EnvRedisURL    = "FEIRA_REDIS_URL"
	EnvTokenSecret = "FEIRA_TOKEN_SECRET"

	EnvDBDSN  = "FEIRA_DB_DSN"
	EnvDBHost = "FEIRA_DB_HOST"
	EnvDBUser = "FEIRA_DB_USER"
	EnvDBName = "FEIRA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
