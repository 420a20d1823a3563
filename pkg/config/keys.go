package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// ELORIE_* names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ELORIE_DB_DSN"
	EnvDBHost = "ELORIE_DB_HOST"
	EnvDBUser = "ELORIE_DB_USER"
	EnvDBName = "ELORIE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
