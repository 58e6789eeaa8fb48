package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger 初始化全局日志，失败直接panic，服务起不来就不要继续了
func InitLogger(level, projectName, logPath string, maxAge, rotationTime time.Duration, rotationSize uint32, dsn string) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			panic(err)
		}
	}
	if _, err := initZap(lvl, projectName, logPath, maxAge, rotationTime, rotationSize, dsn); err != nil {
		panic(err)
	}
}

// 没有调用InitLogger时全局logger是nop，单测里不会有输出

func Debugf(template string, args ...interface{}) {
	zap.S().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	zap.S().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	zap.S().Warnf(template, args...)
}

func Warn(args ...interface{}) {
	zap.S().Warn(args...)
}

func Errorf(template string, args ...interface{}) {
	zap.S().Errorf(template, args...)
}

func Sync() {
	_ = zap.L().Sync()
}
