package config

const (
	EnvPrefix = "farmlink"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "FARMLINK_APP_ENV"
	EnvPort       = "FARMLINK_APP_PORT"
	EnvDBDSN      = "FARMLINK_DB_DSN"
	EnvDBHost     = "FARMLINK_DB_HOST"
	EnvDBUser     = "FARMLINK_DB_USER"
	EnvDBName     = "FARMLINK_DB_NAME"
	EnvRedisURL   = "FARMLINK_REDIS_URL"
	EnvJWTSecret  = "FARMLINK_JWT_SECRET"
	EnvJWTIssuer  = "FARMLINK_JWT_ISSUER"
	EnvJWTExpMins = "FARMLINK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
