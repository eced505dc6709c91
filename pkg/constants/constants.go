package constants

const (
	ServiceName = "passhash"
	Version     = "0.1.0"

	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "PASSHASH"
)
