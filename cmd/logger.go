package cmd

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a production zap logger at level ("debug", "info", ...).
func NewLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = atomicLevel

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("error while building zap logger: %w", err)
	}
	return logger, nil
}
