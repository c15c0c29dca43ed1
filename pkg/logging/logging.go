// Package logging builds the zap loggers used across classreport.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w (stderr when nil).
// Debug output is enabled when verbose is set; otherwise info and above.
func New(verbose bool, w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if !verbose {
		encCfg.CallerKey = zapcore.OmitKey
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		level,
	)

	opts := []zap.Option{zap.AddStacktrace(zapcore.DPanicLevel)}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
