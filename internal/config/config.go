package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	defaultPort          = 5000
	defaultEnv           = EnvDevelopment
	defaultAdminEmail    = "admin@skillbridge.com"
	defaultAdminPassword = "admin12345"
	defaultAdminName     = "Skill Bridge Admin"
	defaultLogLevel      = "info"
	defaultSessionTTL    = 7 * 24 * time.Hour
)

type Config struct {
	DatabaseURL string `validate:"required"`
	AuthSecret  string `validate:"required"`
	AuthURL     string `validate:"required,url"`
	AppURL      string `validate:"required,url"`

	Port int    `validate:"min=1,max=65535"`
	Env  string `validate:"oneof=development production test"`

	// Admin credentials are only read by the seed command, see ValidateAdmin.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	EmailUser          string
	EmailPass          string
	GoogleClientID     string
	GoogleClientSecret string

	LogLevel   string `validate:"oneof=trace debug info warn warning error fatal panic"`
	SessionTTL time.Duration
}

type adminCredentials struct {
	AdminEmail    string `validate:"required,email"`
	AdminPassword string `validate:"min=8"`
	AdminName     string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the process environment into a Config. Every missing required
// key is reported at once, in sorted order.
func Load() (*Config, error) {
	cfg := &Config{
		Env:                getEnvOrDefault("NODE_ENV", defaultEnv),
		AdminEmail:         getEnvOrDefault("ADMIN_EMAIL", defaultAdminEmail),
		AdminPassword:      getEnvOrDefault("ADMIN_PASSWORD", defaultAdminPassword),
		AdminName:          getEnvOrDefault("ADMIN_NAME", defaultAdminName),
		EmailUser:          os.Getenv("EMAIL_USER"),
		EmailPass:          os.Getenv("EMAIL_PASS"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		LogLevel:           strings.ToLower(getEnvOrDefault("LOG_LEVEL", defaultLogLevel)),
	}

	if err := cfg.loadRequired(); err != nil {
		return nil, err
	}

	var err error
	if cfg.Port, err = getEnvIntOrDefault("PORT", defaultPort); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDurationOrDefault("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv seeds the environment from .env files. Variables already present
// in the process win, and absent files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) loadRequired() error {
	required := map[string]*string{
		"DATABASE_URL":       &c.DatabaseURL,
		"BETTER_AUTH_SECRET": &c.AuthSecret,
		"BETTER_AUTH_URL":    &c.AuthURL,
		"APP_URL":            &c.AppURL,
	}

	var missing []string
	for key, ptr := range required {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			missing = append(missing, key)
			continue
		}
		*ptr = value
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingVariable, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks the formats of already loaded values.
func (c *Config) Validate() error {
	return validationError(validate.Struct(c))
}

// ValidateAdmin checks the ADMIN_* values used to seed the admin user.
func (c *Config) ValidateAdmin() error {
	return validationError(validate.Struct(adminCredentials{
		AdminEmail:    c.AdminEmail,
		AdminPassword: c.AdminPassword,
		AdminName:     c.AdminName,
	}))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", envName(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(fields, ", "))
	}
	return fmt.Errorf("validating config: %w", err)
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) MailerEnabled() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

var envNames = map[string]string{
	"DatabaseURL":   "DATABASE_URL",
	"AuthSecret":    "BETTER_AUTH_SECRET",
	"AuthURL":       "BETTER_AUTH_URL",
	"AppURL":        "APP_URL",
	"Port":          "PORT",
	"Env":           "NODE_ENV",
	"AdminEmail":    "ADMIN_EMAIL",
	"AdminPassword": "ADMIN_PASSWORD",
	"AdminName":     "ADMIN_NAME",
	"LogLevel":      "LOG_LEVEL",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, key, value)
	}
	return intValue, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q is not a positive duration", ErrInvalidValue, key, value)
	}
	return d, nil
}
