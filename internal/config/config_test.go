package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	v := newTestViper()
	v.Set("database_url", "postgres://quiz@localhost/quiz")

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" || cfg.HTTP.CookieName != "quiz_session" {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.HTTP.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.HTTP.SessionTTL)
	}
	if cfg.Quiz.TimeLimitPerQuestion != 120*time.Second {
		t.Errorf("TimeLimitPerQuestion = %v", cfg.Quiz.TimeLimitPerQuestion)
	}
	if cfg.DB.MaxConnections != 20 || cfg.DB.MaxConnLifetime != 30*time.Second {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Admin.Username != "admin" || cfg.Admin.Passkey != "admin123" {
		t.Errorf("admin = %+v", cfg.Admin)
	}
	if cfg.Redis.URL != "" || cfg.Events.URL != "" || cfg.Telegram.Token != "" {
		t.Error("optional integrations enabled by default")
	}

	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://quiz@localhost/quiz" {
		t.Errorf("DSN = %q, %v", dsn, err)
	}
}

func TestFromViperRequiresDatabaseURL(t *testing.T) {
	_, err := fromViper(newTestViper())
	if !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("err = %v, want ErrMissingEnvironmentVariables", err)
	}
}

func TestFromViperClampsDefaultQuestions(t *testing.T) {
	v := newTestViper()
	v.Set("database_url", "postgres://localhost/quiz")
	v.Set("quiz.max_questions", 5)
	v.Set("quiz.default_questions", 8)

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.Quiz.DefaultQuestions != 5 {
		t.Errorf("DefaultQuestions = %d, want 5", cfg.Quiz.DefaultQuestions)
	}
}
