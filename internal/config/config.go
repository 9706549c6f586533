package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"PORT"`
		Mode        string   `yaml:"mode" env:"SERVER_MODE"`
		ReadyWait   string   `yaml:"ready_wait" env:"SERVER_READY_WAIT"`
		CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		MaxConnIdleTime string `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME"`
		ConnectRetry    string `yaml:"connect_retry" env:"DB_CONNECT_RETRY"`
		MigrateOnStart  bool   `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret" env:"SECRET"`
		Expiration string `yaml:"expiration" env:"JWT_EXPIRATION"`
		Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	// Auth names the identity headers set by the single sign-on gateway in
	// front of the API, and the student numbers promoted to admin on start.
	Auth struct {
		UIDHeader           string   `yaml:"uid_header" env:"AUTH_UID_HEADER"`
		FirstNamesHeader    string   `yaml:"first_names_header" env:"AUTH_FIRST_NAMES_HEADER"`
		LastNameHeader      string   `yaml:"last_name_header" env:"AUTH_LAST_NAME_HEADER"`
		EmailHeader         string   `yaml:"email_header" env:"AUTH_EMAIL_HEADER"`
		StudentNumberHeader string   `yaml:"student_number_header" env:"AUTH_STUDENT_NUMBER_HEADER"`
		Admins              []string `yaml:"admins" env:"AUTH_ADMINS"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from defaults, an optional YAML file, an
// optional .env file and finally the process environment.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults mirrors the reference docker-compose deployment.
func setDefaults(config *Config) {
	config.Server.Port = "3001"
	config.Server.Mode = "development"
	config.Server.ReadyWait = "3s"

	config.Database.Host = "db"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.DBName = "postgres"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 5
	config.Database.MinConns = 0
	// 300000000 ms, the idle timeout of the original connection pool.
	config.Database.MaxConnIdleTime = "83h20m"
	config.Database.ConnectRetry = "5s"
	config.Database.MigrateOnStart = true

	config.JWT.Expiration = "24h"
	config.JWT.Issuer = "topicreg"

	config.Auth.UIDHeader = "uid"
	config.Auth.FirstNamesHeader = "givenname"
	config.Auth.LastNameHeader = "sn"
	config.Auth.EmailHeader = "mail"
	config.Auth.StudentNumberHeader = "schacpersonaluniquecode"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database max_open_conns must be positive")
	}
	if config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxOpenConns {
		return fmt.Errorf("database min_conns must be between 0 and max_open_conns")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"server.ready_wait":           config.Server.ReadyWait,
		"database.max_conn_idle_time": config.Database.MaxConnIdleTime,
		"database.connect_retry":      config.Database.ConnectRetry,
		"jwt.expiration":              config.JWT.Expiration,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s duration: %w", name, err)
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

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
