// pkg/logger/logger.go
package logger

import (
	"go.uber.org/zap"
)

type Sugared = *zap.SugaredLogger

// New builds the process logger; prod gets JSON output, anything else the
// development console encoder.
func New(env string) Sugared {
	var z *zap.Logger
	if env == "prod" {
		z, _ = zap.NewProduction()
	} else {
		z, _ = zap.NewDevelopment()
	}
	return z.Sugar().With("service", "realms")
}

// Nop discards everything. Used by tests and library callers without a logger.
func Nop() Sugared { return zap.NewNop().Sugar() }
