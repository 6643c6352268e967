package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"`      // current application environment (local, dev, production etc)
	HTTP     HTTP     `mapstructure:"http"`     // web server section
	DB       DB       `mapstructure:"database"` // database configuration section
	Redis    Redis    `mapstructure:"redis"`    // session storage, optional
	Events   Events   `mapstructure:"events"`   // AMQP event publishing, optional
	Telegram Telegram `mapstructure:"telegram"` // admin notifications, optional
	Quiz     Quiz     `mapstructure:"quiz"`
	Admin    Admin    `mapstructure:"admin"`
}

// HTTP contains web server parameters.
type HTTP struct {
	Addr           string        `mapstructure:"addr"`
	CookieName     string        `mapstructure:"cookie_name"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis configures the session store. An empty URL selects the in-memory store.
type Redis struct {
	URL string `mapstructure:"-"`
}

// Events configures the AMQP publisher. An empty URL disables publishing.
type Events struct {
	URL      string `mapstructure:"-"`
	Exchange string `mapstructure:"exchange"`
}

// Telegram configures admin notifications. An empty token disables them.
type Telegram struct {
	Token       string `mapstructure:"-"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
}

// Quiz holds quiz-taking limits.
type Quiz struct {
	DefaultQuestions     int           `mapstructure:"default_questions"`
	MaxQuestions         int           `mapstructure:"max_questions"`
	TimeLimitPerQuestion time.Duration `mapstructure:"time_limit_per_question"`
}

// Admin is the administrator account seeded on startup.
type Admin struct {
	Username string `mapstructure:"username"`
	Passkey  string `mapstructure:"-"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("amqp_url", "AMQP_URL")
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("admin_passkey", "ADMIN_PASSKEY")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cookie_name", "quiz_session")
	v.SetDefault("http.cookie_secure", false)
	v.SetDefault("http.session_ttl", "12h")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("events.exchange", "quiz.events")
	v.SetDefault("quiz.default_questions", 10)
	v.SetDefault("quiz.max_questions", 50)
	v.SetDefault("quiz.time_limit_per_question", "120s")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin_passkey", "admin123")
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Redis.URL = v.GetString("redis_url")
	cfg.Events.URL = v.GetString("amqp_url")
	cfg.Telegram.Token = v.GetString("telegram_api_token")
	cfg.Admin.Passkey = v.GetString("admin_passkey")

	if cfg.Quiz.MaxQuestions < 1 {
		return nil, fmt.Errorf("quiz.max_questions must be positive, got %d", cfg.Quiz.MaxQuestions)
	}
	if cfg.Quiz.DefaultQuestions < 1 || cfg.Quiz.DefaultQuestions > cfg.Quiz.MaxQuestions {
		cfg.Quiz.DefaultQuestions = cfg.Quiz.MaxQuestions
	}

	return &cfg, nil
}
