package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logMessageKey = "message"
	logLevelKey   = "level"
	logSeparator  = "\t"
)

// NewApplicationLogger returns a console logger writing to output without
// timestamps or callers, and the level controlling it. The level starts at
// info; --debug lowers it at runtime.
func NewApplicationLogger(output zapcore.WriteSyncer) (*zap.Logger, zap.AtomicLevel) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       logMessageKey,
		LevelKey:         logLevelKey,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: logSeparator,
	})
	return zap.New(zapcore.NewCore(encoder, output, level)), level
}
