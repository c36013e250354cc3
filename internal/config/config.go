package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Identifiers struct {
		Branches              map[string]string `yaml:"branches" env:"ID_BRANCHES"`
		CourseTypes           map[string]string `yaml:"course_types" env:"ID_COURSE_TYPES"`
		Departments           map[string]string `yaml:"departments" env:"ID_DEPARTMENTS"`
		StudentSequenceSeed   int               `yaml:"student_sequence_seed" env:"ID_STUDENT_SEQUENCE_SEED"`
		JobSequenceWidth      int               `yaml:"job_sequence_width" env:"ID_JOB_SEQUENCE_WIDTH"`
		MaxAllocationAttempts int               `yaml:"max_allocation_attempts" env:"ID_MAX_ALLOCATION_ATTEMPTS"`
	} `yaml:"identifiers"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"

	// Database defaults
	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "placementcrm"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "placementcrm"

	// SMTP defaults
	config.SMTP.Port = 587
	config.SMTP.FromName = "Placement Cell"

	// Identifier defaults
	config.Identifiers.Branches = DefaultBranchCodes()
	config.Identifiers.CourseTypes = DefaultCourseTypeCodes()
	config.Identifiers.Departments = map[string]string{}
	config.Identifiers.StudentSequenceSeed = 1000
	config.Identifiers.JobSequenceWidth = 2
	config.Identifiers.MaxAllocationAttempts = 3

	// Seed defaults
	config.Seed.Enabled = true
	config.Seed.AdminEmail = "admin@placementcrm.local"
	config.Seed.AdminPassword = "Admin123!"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// DefaultBranchCodes returns the branch abbreviations used when the config file does not list any.
func DefaultBranchCodes() map[string]string {
	return map[string]string{
		"Tambaram":   "TM",
		"Velachery":  "VL",
		"Anna Nagar": "AN",
		"T Nagar":    "TN",
		"Porur":      "PR",
		"Adyar":      "AD",
		"OMR":        "OM",
		"Chromepet":  "CP",
		"Guindy":     "GD",
		"Vadapalani": "VP",
		"Online":     "ON",
	}
}

// DefaultCourseTypeCodes returns the course type abbreviations used when the config file does not list any.
func DefaultCourseTypeCodes() map[string]string {
	return map[string]string{
		"Career Development":       "CD",
		"Placement and Internship": "PI",
		"Short Term":               "ST",
		"Corporate Training":       "CT",
		"Course":                   "CR",
	}
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}

	if config.Identifiers.JobSequenceWidth < 1 {
		return fmt.Errorf("identifiers.job_sequence_width must be at least 1")
	}

	if config.Identifiers.MaxAllocationAttempts < 1 {
		return fmt.Errorf("identifiers.max_allocation_attempts must be at least 1")
	}

	if config.Seed.Enabled && len(config.Seed.AdminPassword) < 8 {
		return fmt.Errorf("seed.admin_password must be at least 8 characters")
	}

	for name, code := range config.Identifiers.Branches {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("branch %q has an empty code", name)
		}
	}
	for name, code := range config.Identifiers.CourseTypes {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("course type %q has an empty code", name)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PublicBaseURL returns the externally visible base URL of the API server.
func (c *Config) PublicBaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
