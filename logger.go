package main

import (
	"time"

	"protofolio/backend/config"
	"protofolio/backend/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// makeLogger installs the global logger. When w is set, errors are also
// written to the database.
func makeLogger(c config.App, w service.LogWriter) {
	var cfg zap.Config

	if c.Production() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(gray + t.Format("15:04:05.000") + reset)
		}
		cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(gray + ec.TrimmedPath() + reset)
		}
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	if w != nil {
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, service.NewDBCore(w, zapcore.ErrorLevel))
		}))
	}

	zap.ReplaceGlobals(log)
}
