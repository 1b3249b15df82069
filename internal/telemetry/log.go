// Package telemetry provides the structured logger shared by the fixture
// driver and the optimiser's verbose path.
package telemetry

import "go.uber.org/zap"

// New builds a sugared logger. In verbose mode it uses zap's development
// encoder (human-readable, colorised level, caller line); otherwise it logs
// only warnings and above, matching the driver's default quiet behaviour.
func New(verbose bool) *zap.SugaredLogger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// Logger construction failing means stdout/stderr itself is broken;
		// there is nothing sensible left to log this error to.
		panic(err)
	}
	return logger.Sugar()
}

// Nop returns a logger that discards everything, for use in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
