package config

const (
	// EnvPrefix namespaces every environment variable the backend reads.
	EnvPrefix = "SEEDMARKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SEEDMARKET_DB_DSN"
	EnvDBHost = "SEEDMARKET_DB_HOST"
	EnvDBUser = "SEEDMARKET_DB_USER"
	EnvDBName = "SEEDMARKET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
