package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes JSON to a rotating file under logDir. With console set,
// entries are also printed to stdout in a human-readable form.
func NewLogger(logDir string, console bool) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "simpeyes.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel)}

	if console {
		ccfg := zap.NewDevelopmentEncoderConfig()
		ccfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ccfg.EncodeCaller = nil
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(ccfg), zapcore.Lock(os.Stdout), zap.InfoLevel))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
