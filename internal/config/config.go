package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database configuration (MySQL, canonical records)
	Database DatabaseConfig `json:"database"`

	// MongoDB configuration (GridFS media storage)
	MongoDB MongoConfig `json:"mongodb"`

	// Redis configuration (live notification relay)
	Redis RedisConfig `json:"redis"`

	// Firebase Cloud Messaging configuration
	Firebase FirebaseConfig `json:"firebase"`

	// Notification fan-out configuration
	Notification NotificationConfig `json:"notification"`

	// Auth configuration
	Auth AuthConfig `json:"auth"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
}

// FirebaseConfig contains Firebase Cloud Messaging configuration
type FirebaseConfig struct {
	ProjectID           string `json:"project_id"`
	CredentialsFilePath string `json:"credentials_file_path"`
	Enabled             bool   `json:"enabled"`
}

// NotificationConfig contains notification fan-out configuration
type NotificationConfig struct {
	Workers                int `json:"workers"`                  // worker goroutines draining the event channel
	ChannelBufferSize      int `json:"channel_buffer_size"`      // event channel capacity
	ScheduledCheckInterval int `json:"scheduled_check_interval"` // seconds between reminder sweeps
}

type AuthConfig struct {
	JWTSecret   string `json:"-"`
	TokenTTLHrs int    `json:"token_ttl_hours"`
}

// Load builds the configuration from environment variables with defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvOrDefault("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "fitconnect"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			DatabaseName: getEnvOrDefault("DB_NAME", "fitconnect"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoConfig{
			URI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnvOrDefault("MONGO_DB", "fitconnect_media"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
			Enabled:  getEnvOrDefault("REDIS_ENABLED", "true") == "true",
		},
		Firebase: FirebaseConfig{
			ProjectID:           getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
			CredentialsFilePath: getEnvOrDefault("FIREBASE_CREDENTIALS_PATH", ""),
			Enabled:             getEnvOrDefault("FIREBASE_ENABLED", "false") == "true",
		},
		Notification: NotificationConfig{
			Workers:                getEnvIntOrDefault("NOTIF_WORKERS", 5),
			ChannelBufferSize:      getEnvIntOrDefault("NOTIF_BUFFER", 1000),
			ScheduledCheckInterval: getEnvIntOrDefault("NOTIF_SCHEDULED_INTERVAL", 60),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
			TokenTTLHrs: getEnvIntOrDefault("JWT_TTL_HOURS", 24),
		},
	}
}

// DSN builds the MySQL connection string.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) Addr() string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
