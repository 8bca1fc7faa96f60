package config

// EnvPrefix is the envconfig prefix applied to every variable.
const EnvPrefix = "TOKOKITA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "TOKOKITA_APP_ENV"
	EnvPort     = "TOKOKITA_APP_PORT"
	EnvDBDSN    = "TOKOKITA_DB_DSN"
	EnvDBHost   = "TOKOKITA_DB_HOST"
	EnvDBUser   = "TOKOKITA_DB_USER"
	EnvDBName   = "TOKOKITA_DB_NAME"
	EnvRedisURL = "TOKOKITA_REDIS_URL"

	EnvJWTSecret = "TOKOKITA_JWT_SECRET"
	EnvJWTIssuer = "TOKOKITA_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
