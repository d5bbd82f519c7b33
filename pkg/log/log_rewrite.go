package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func ensure() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}

	// fall back to a stdout logger so package-level calls never panic
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		core := zapcore.NewCore(getEncoder(), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
		logger = zap.New(core, zap.AddCallerSkip(1), zap.AddCaller())
		sugar = logger.Sugar()
	}
	return sugar
}

func Debug(args ...interface{}) {
	ensure().Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	ensure().Debugf(format, args...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	ensure().Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	ensure().Info(args...)
}

func Infof(format string, args ...interface{}) {
	ensure().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	ensure().Infow(msg, keysAndValues...)
}

func Warn(args ...interface{}) {
	ensure().Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	ensure().Warnf(format, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	ensure().Warnw(msg, keysAndValues...)
}

func Error(args ...interface{}) {
	ensure().Error(args...)
}

func Errorf(format string, args ...interface{}) {
	ensure().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	ensure().Errorw(msg, keysAndValues...)
}

func Fatal(args ...interface{}) {
	ensure().Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	ensure().Fatalf(format, args...)
}
