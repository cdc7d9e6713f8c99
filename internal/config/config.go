package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the corpus service
type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Reddit  RedditConfig
	Storage StorageConfig
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr string
}

// FetchConfig holds feed-client configuration
type FetchConfig struct {
	RequestTimeout    time.Duration
	DefaultQuantity   int
	EnableRobotsCheck bool
	UserAgent         string
}

// RedditConfig holds the Reddit application credentials. The service
// only needs the user agent for the public listing endpoint; client id
// and secret are kept for parity with the registered application.
type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// Configured reports whether credentials are present.
func (r RedditConfig) Configured() bool {
	return r.ClientID != "" && r.ClientSecret != ""
}

// StorageConfig holds snapshot-cache configuration
type StorageConfig struct {
	Backend    string // "file" or "sqlite"
	DataDir    string
	SQLitePath string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: GetStringEnv("SERVER_ADDR", ":8080"),
		},
		Fetch: FetchConfig{
			RequestTimeout:    GetDurationEnv("FETCH_REQUEST_TIMEOUT", 30*time.Second),
			DefaultQuantity:   GetIntEnv("FETCH_DEFAULT_QUANTITY", 10),
			EnableRobotsCheck: GetBoolEnv("FETCH_ENABLE_ROBOTS_CHECK", true),
			UserAgent:         GetStringEnv("FETCH_USER_AGENT", "FeedCorpus/1.0"),
		},
		Reddit: RedditConfig{
			ClientID:     GetStringEnv("CLIENT_ID", ""),
			ClientSecret: GetStringEnv("CLIENT_SECRET", ""),
			UserAgent:    GetStringEnv("USER_AGENT", "FeedCorpus/1.0"),
		},
		Storage: StorageConfig{
			Backend:    GetStringEnv("STORAGE_BACKEND", "file"),
			DataDir:    GetStringEnv("STORAGE_DATA_DIR", "./data"),
			SQLitePath: GetStringEnv("STORAGE_SQLITE_PATH", "./data/corpus.db"),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
