// Package nuoplog wires process-wide structured logging from the
// LOG_LEVEL/LOG_FORMAT environment variables into controller-runtime's
// logr.Logger, the same way every controller-runtime-based operator in the
// example pack boots logging (cmd/operator-controller/main.go, rukpak).
package nuoplog

import (
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
)

const (
	// LevelEnvVar selects the minimum logged severity. Default INFO.
	LevelEnvVar = "LOG_LEVEL"
	// FormatEnvVar selects "plain" (console) or "json" encoding. Default plain.
	FormatEnvVar = "LOG_FORMAT"
)

// Init builds a zap-backed logr.Logger from the environment and installs it
// as controller-runtime's global logger. It returns the logger so callers
// can also use it directly.
func Init() logr.Logger {
	level := parseLevel(os.Getenv(LevelEnvVar))

	var cfg zap.Config
	if strings.EqualFold(os.Getenv(FormatEnvVar), "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zapLog, err := cfg.Build()
	if err != nil {
		// Logging must never be why the process fails to start.
		zapLog = zap.NewNop()
	}

	log := zapr.NewLogger(zapLog)
	ctrl.SetLogger(log)
	return log
}

func parseLevel(raw string) zapcore.Level {
	switch strings.ToUpper(raw) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "":
		return zapcore.InfoLevel
	default:
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(raw))); err == nil {
			return lvl
		}
		return zapcore.InfoLevel
	}
}
