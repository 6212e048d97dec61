package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "pzfresh"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PZFRESH_DB_DSN"
	EnvDBHost = "PZFRESH_DB_HOST"
	EnvDBUser = "PZFRESH_DB_USER"
	EnvDBName = "PZFRESH_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
