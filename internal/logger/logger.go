package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/config"
)

// New builds the application logger: JSON output in production, human
// readable console output everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment(zap.AddStacktrace(zap.ErrorLevel))
}
