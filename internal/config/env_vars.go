package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	projectNumberVar = "GCP_PROJECT_NUMBER"
	backendURLVar    = "OWUI_API_URL"
	backendKeyVar    = "OWUI_API_KEY"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetProjectNumber() string
	GetBackendBaseURL() string
	GetBackendAPIKey() string
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Chat Relay")
}

// GetProjectNumber returns the GCP project number used as the expected
// token audience. Required; Validate fails without it.
func (EnvVars) GetProjectNumber() string {
	return GetEnv(projectNumberVar, "")
}

// GetBackendBaseURL returns the base URL of the OpenWebUI API.
func (EnvVars) GetBackendBaseURL() string {
	return GetEnv(backendURLVar, "https://cojovi.ngrok.dev:3000/api/v1")
}

// GetBackendAPIKey returns the OpenWebUI API key. Required; Validate
// fails without it.
func (EnvVars) GetBackendAPIKey() string {
	return GetEnv(backendKeyVar, "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
