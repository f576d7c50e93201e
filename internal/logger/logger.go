package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects the level and destination of log output.
type LogConfig struct {
	Level      string // debug, info, warn, error
	Output     string // console, file, both, none
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultConfig logs warnings and above to stderr, leaving stdout to command
// output.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "warn",
		Output:     "console",
		FilePath:   "logs/unifi-protect-cli.log",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// New builds a zap logger for cfg. The returned close func syncs the logger
// and closes the log file, if any.
func New(cfg LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleCore := func() zapcore.Core {
		return zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level)
	}

	var (
		core       zapcore.Core
		fileWriter *lumberjack.Logger
	)

	switch strings.ToLower(cfg.Output) {
	case "none":
		return zap.NewNop(), func() {}, nil
	case "file", "both":
		fileWriter, err = newFileWriter(cfg)
		if err != nil {
			return nil, nil, err
		}
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(fileWriter), level)
		if strings.EqualFold(cfg.Output, "both") {
			core = zapcore.NewTee(consoleCore(), fileCore)
		} else {
			core = fileCore
		}
	default:
		core = consoleCore()
	}

	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closeFn := func() {
		_ = log.Sync()
		if fileWriter != nil {
			_ = fileWriter.Close()
		}
	}
	return log, closeFn, nil
}

func newFileWriter(cfg LogConfig) (*lumberjack.Logger, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("log output %q requires a file path", cfg.Output)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  true,
		Compress:   true,
	}, nil
}
