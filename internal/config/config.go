// Package config provides application configuration from environment variables
package config

import (
	"os"
	"strconv"
)

// AppConfig holds all application configuration
type AppConfig struct {
	ListenAddr        string
	DatasetsDir       string
	RiseSetSearchDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *AppConfig {
	return &AppConfig{
		ListenAddr:        getEnv("LISTEN_ADDR", ":3000"),
		DatasetsDir:       getEnv("DATASETS_DIR", "./data"),
		RiseSetSearchDays: getEnvInt("RISE_SET_SEARCH_DAYS", 3),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
