package logging

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var zapLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

type zapLogger struct {
	cfg    *LoggerConfig
	logger *zap.SugaredLogger
}

func newZapLogger(cfg *LoggerConfig) *zapLogger {
	l := &zapLogger{cfg: cfg}
	l.Init()
	return l
}

func (l *zapLogger) level() zapcore.Level {
	if lvl, ok := zapLevels[l.cfg.Level]; ok {
		return lvl
	}
	return zapcore.DebugLevel
}

func (l *zapLogger) Init() {
	once.Do(func() {
		fileName := filepath.Join(l.cfg.FilePath, fmt.Sprintf("%s-log.log", time.Now().Format("2006-01-02")))

		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   fileName,
			MaxSize:    10,
			MaxAge:     30,
			MaxBackups: 5,
			Compress:   true,
		})

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if l.cfg.Encoding == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderCfg)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderCfg)
		}

		core := zapcore.NewCore(encoder, writer, l.level())

		logger := zap.New(core,
			zap.AddCaller(),
			zap.AddCallerSkip(1),
			zap.AddStacktrace(zapcore.ErrorLevel),
		).Sugar()

		l.logger = logger.With(string(AppName), "sketchaa", string(LoggerName), "zap")
	})
}

func (l *zapLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Debugw(msg, l.params(cat, sub, extra)...)
}

func (l *zapLogger) Debugf(template string, args ...any) {
	l.logger.Debugf(template, args...)
}

func (l *zapLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Infow(msg, l.params(cat, sub, extra)...)
}

func (l *zapLogger) Infof(template string, args ...any) {
	l.logger.Infof(template, args...)
}

func (l *zapLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Warnw(msg, l.params(cat, sub, extra)...)
}

func (l *zapLogger) Warnf(template string, args ...any) {
	l.logger.Warnf(template, args...)
}

func (l *zapLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Errorw(msg, l.params(cat, sub, extra)...)
}

func (l *zapLogger) Errorf(template string, args ...any) {
	l.logger.Errorf(template, args...)
}

func (l *zapLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Fatalw(msg, l.params(cat, sub, extra)...)
}

func (l *zapLogger) Fatalf(template string, args ...any) {
	l.logger.Fatalf(template, args...)
}

func (l *zapLogger) params(cat Category, sub SubCategory, extra map[ExtraKey]any) []any {
	params := logParamsToZapParams(extra)
	params = append(params, "Category", string(cat), "SubCategory", string(sub))
	return params
}
