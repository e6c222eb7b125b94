package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	logLevelEnvVar = "LOG_LEVEL"
	baseURLVar     = "BASE_URL"

	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type EnvVars struct {
	port     string
	appName  string
	env      string
	logLevel string
	baseURL  string
}

var _ EnvConfig = EnvVars{}

func loadEnvVars() EnvVars {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return EnvVars{
		port:     port,
		appName:  GetEnv(appNameVar, "Designare"),
		env:      strings.ToUpper(GetEnv(envVar, EnvDevelopment)),
		logLevel: GetEnv(logLevelEnvVar, "info"),
		baseURL:  strings.TrimRight(GetEnv(baseURLVar, "http://localhost:8080"), "/"),
	}
}

func (e EnvVars) GetPort() string {
	return e.port
}

func (e EnvVars) GetAppName() string {
	return e.appName
}

func (e EnvVars) GetEnv() string {
	return e.env
}

func (e EnvVars) GetLogLevel() string {
	return e.logLevel
}

// GetBaseURL returns the public base URL of the site (e.g., "https://designare.app").
// Project urls and thumbnail urls are built from it.
func (e EnvVars) GetBaseURL() string {
	return e.baseURL
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvSeconds parses a whole number of seconds. Empty values fall back to the default.
func GetEnvSeconds(envVar string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envVar, err)
	}
	return time.Duration(n) * time.Second, nil
}

func GetEnvBool(envVar string, defaultValue bool) bool {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return b
}
