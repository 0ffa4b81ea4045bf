// Package logger builds the zap logger that the rest of the service
// receives by injection.
package logger

import (
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/config"
)

// New builds a logger for the given environment. Production gets JSON
// output at info level; everything else gets the console encoder at debug.
func New(env config.Environment) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch env {
	case config.Production:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
