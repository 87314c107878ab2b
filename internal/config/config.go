package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App Client
}

type Client struct {
	APIBaseURL     string
	SocketURL      string
	Environment    string
	LogFilePath    string
	SessionPath    string
	OrganizationID string
	RequestTimeout int // seconds
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: Client{
			APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:5000/api"),
			SocketURL:      getEnv("SOCKET_URL", "ws://localhost:5000/ws"),
			Environment:    getEnv("GO_ENV", "development"),
			LogFilePath:    getEnv("LOG_FILE_PATH", "logs/repmeup.log"),
			SessionPath:    getEnv("SESSION_FILE_PATH", defaultSessionPath()),
			OrganizationID: getEnv("ORGANIZATION_ID", ""),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30),
		},
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "repmeup", "session.json")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
