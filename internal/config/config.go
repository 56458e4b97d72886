package config

import "fmt"

type Config interface {
	EnvConfig
	RelayConfig
}

type mainConfig struct {
	EnvVars
	Relay
}

func New() Config {
	return mainConfig{}
}

// Validate reports the first required configuration value that is
// absent. Called once at startup; a failure there is fatal rather than
// being surfaced at request time.
func Validate(c Config) error {
	if c.GetProjectNumber() == "" {
		return fmt.Errorf("missing required environment variable: %s", projectNumberVar)
	}
	if c.GetBackendAPIKey() == "" {
		return fmt.Errorf("missing required environment variable: %s", backendKeyVar)
	}
	return nil
}
