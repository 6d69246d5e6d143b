package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	App    AppConfig
	Seeder SeederConfig
	Shift  ShiftConfig
	Log    LogConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

const defaultDBName = "calendar"

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != defaultDBName {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// AppConfig holds host level defaults
type AppConfig struct {
	// Language used when a request names none
	Language string
	// Languages the directory prebuilds an ordering for; empty means all supported
	Languages []string
}

// SeederConfig holds settings for data import
type SeederConfig struct {
	DataDir          string
	DatasetFile      string
	Partial          bool
	AllowedCountries []string
}

// ShiftConfig is the persisted shift work schedule
type ShiftConfig struct {
	Setting     string
	StartingJDN int64
	Recurs      bool
	Titles      map[string]string
	RestKeys    []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string
	Development bool
	File        string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "calendar"),
			Password: getEnv("DB_PASSWORD", "calendar_password"),
			Name:     getEnv("DB_NAME", defaultDBName),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		App: AppConfig{
			Language:  getEnv("APP_LANGUAGE", "fa"),
			Languages: getEnvAsSlice("APP_LANGUAGES"),
		},
		Seeder: SeederConfig{
			DataDir:          getEnv("SEEDER_DATA_DIR", "data"),
			DatasetFile:      getEnv("SEEDER_DATASET_FILE", "cities.json"),
			Partial:          getEnvAsBool("SEEDER_PARTIAL", false),
			AllowedCountries: getEnvAsSlice("SEEDER_ALLOWED_COUNTRIES"),
		},
		Shift: ShiftConfig{
			Setting:     getEnv("SHIFT_WORK_SETTING", ""),
			StartingJDN: getEnvAsInt64("SHIFT_WORK_STARTING_JDN", -1),
			Recurs:      getEnvAsBool("SHIFT_WORK_RECURS", true),
			Titles:      getEnvAsMap("SHIFT_WORK_TITLES"),
			RestKeys:    getEnvAsSliceDefault("SHIFT_WORK_REST_KEYS", []string{"r"}),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
			File:        getEnv("LOG_FILE", ""),
			MaxSizeMB:   getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups:  getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays:  getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnvAsSliceDefault(key string, defaultValue []string) []string {
	if result := getEnvAsSlice(key); len(result) > 0 {
		return result
	}
	return defaultValue
}

// getEnvAsMap reads comma separated key=value pairs, e.g. "d=Day,r=Rest".
func getEnvAsMap(key string) map[string]string {
	parts := getEnvAsSlice(key)
	if len(parts) == 0 {
		return nil
	}
	result := make(map[string]string, len(parts))
	for _, part := range parts {
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		result[k] = strings.TrimSpace(v)
	}
	return result
}
