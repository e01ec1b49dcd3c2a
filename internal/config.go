package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Bootstrap     BootstrapConfig     `mapstructure:"bootstrap"`
	Upload        UploadConfig        `mapstructure:"upload"`
	AccessControl AccessControlConfig `mapstructure:"access_control"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	Port           int           `mapstructure:"port"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SecurityConfig struct {
	JWTSecret        string `mapstructure:"jwt_secret"`
	TokenExpiryDays  int    `mapstructure:"token_expiry_days"`
	PBKDF2Iterations int    `mapstructure:"pbkdf2_iterations"`
}

// BootstrapConfig feeds the one-shot createadmin operation.
type BootstrapConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminName     string `mapstructure:"admin_name"`
	AdminPassword string `mapstructure:"admin_password"`
}

type UploadConfig struct {
	Provider  string `mapstructure:"provider"` // local | s3
	Folder    string `mapstructure:"folder"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type AccessControlConfig struct {
	// AutoRebuild makes every resource-permission write refresh the
	// permission table. When false only the explicit rebuild endpoint does.
	AutoRebuild bool `mapstructure:"auto_rebuild"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfigFromEnv builds a Config purely from environment variables, for
// container deployments where no config.yml is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        getEnv("SERVER_ADDRESS", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_SOURCE", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Security: SecurityConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			TokenExpiryDays:  getEnvAsInt("JWT_EXPIRATION_DAYS", 7),
			PBKDF2Iterations: getEnvAsInt("PBKDF2_ITERATIONS", 1000),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminName:     getEnv("ADMIN_NAME", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Upload: UploadConfig{
			Provider:  getEnv("UPLOAD_PROVIDER", "local"),
			Folder:    getEnv("UPLOAD_FOLDER", "uploads"),
			Bucket:    getEnv("UPLOAD_BUCKET", ""),
			Endpoint:  getEnv("UPLOAD_ENDPOINT", ""),
			Region:    getEnv("UPLOAD_REGION", "us-east-1"),
			AccessKey: getEnv("UPLOAD_ACCESS_KEY", ""),
			SecretKey: getEnv("UPLOAD_SECRET_KEY", ""),
		},
		AccessControl: AccessControlConfig{
			AutoRebuild: getEnvAsBool("ACCESS_CONTROL_AUTO_REBUILD", true),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}
	if err := c.Upload.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("upload config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.TokenExpiryDays <= 0 {
		return errors.New("token_expiry_days must be positive")
	}
	if c.PBKDF2Iterations < 1000 {
		return errors.New("pbkdf2_iterations must be at least 1000")
	}
	return nil
}

func (c *UploadConfig) Validate() error {
	switch c.Provider {
	case "local":
		if c.Folder == "" {
			return errors.New("folder is required for the local provider")
		}
	case "s3":
		if c.Bucket == "" {
			return errors.New("bucket is required for the s3 provider")
		}
	default:
		return fmt.Errorf("unknown upload provider %q", c.Provider)
	}
	return nil
}
