package config

import (
	"os"
	"strconv"
	"strings"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// MongoConfig holds MongoDB connection settings.
// Host, port, database and collection default to the shelter's fixed deployment;
// credentials are never defaulted.
type MongoConfig struct {
	User              string
	Password          string
	Host              string
	Port              string
	Name              string
	Collection        string
	AuthSource        string
	ConnectTimeoutSec int
	// Direct disables topology discovery and talks to Host:Port only.
	Direct bool
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppName string
	Port    string
	// StoreDriver selects the AnimalRepository backend: "mongo" or "memory".
	StoreDriver string
	Mongo       MongoConfig
	Log         LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppName:     getEnv("APP_NAME", "animalshelter"),
		Port:        getEnv("PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		Mongo: MongoConfig{
			User:              getEnv("MONGO_USER", ""),
			Password:          getEnv("MONGO_PASSWORD", ""),
			Host:              getEnv("MONGO_HOST", "nv-desktop-services.apporto.com"),
			Port:              getEnv("MONGO_PORT", "33688"),
			Name:              getEnv("MONGO_DB", "AAC"),
			Collection:        getEnv("MONGO_COLLECTION", "animals"),
			AuthSource:        getEnv("MONGO_AUTH_SOURCE", ""),
			ConnectTimeoutSec: getEnvInt("MONGO_CONNECT_TIMEOUT_SEC", 10),
			Direct:            getEnvBool("MONGO_DIRECT", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
