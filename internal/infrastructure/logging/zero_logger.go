package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var zeroLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"fatal": zerolog.FatalLevel,
}

type zeroLogger struct {
	cfg    *LoggerConfig
	logger zerolog.Logger
}

func newZeroLogger(cfg *LoggerConfig) *zeroLogger {
	l := &zeroLogger{cfg: cfg}
	l.Init()
	return l
}

func (l *zeroLogger) level() zerolog.Level {
	if lvl, ok := zeroLevels[l.cfg.Level]; ok {
		return lvl
	}
	return zerolog.DebugLevel
}

func (l *zeroLogger) Init() {
	once.Do(func() {
		fileName := filepath.Join(l.cfg.FilePath, fmt.Sprintf("%s-log.log", time.Now().Format("2006-01-02")))

		if err := os.MkdirAll(l.cfg.FilePath, 0o755); err != nil {
			panic(fmt.Sprintf("could not create log directory: %s", err))
		}

		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("could not open log file: %s", err))
		}

		zerolog.TimeFieldFormat = time.RFC3339

		l.logger = zerolog.New(file).
			With().
			Timestamp().
			Str(string(AppName), "sketchaa").
			Str(string(LoggerName), "zerolog").
			Logger().
			Level(l.level())
	})
}

func (l *zeroLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Debug(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Debugf(template string, args ...any) {
	l.logger.Debug().Msgf(template, args...)
}

func (l *zeroLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Info(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Infof(template string, args ...any) {
	l.logger.Info().Msgf(template, args...)
}

func (l *zeroLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Warn(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Warnf(template string, args ...any) {
	l.logger.Warn().Msgf(template, args...)
}

func (l *zeroLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Error(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Errorf(template string, args ...any) {
	l.logger.Error().Msgf(template, args...)
}

func (l *zeroLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Fatal(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Fatalf(template string, args ...any) {
	l.logger.Fatal().Msgf(template, args...)
}

func (l *zeroLogger) event(ev *zerolog.Event, cat Category, sub SubCategory, extra map[ExtraKey]any) *zerolog.Event {
	ev = ev.Str("Category", string(cat)).Str("SubCategory", string(sub))
	for k, v := range logParamsToZeroParams(extra) {
		ev = ev.Interface(k, v)
	}
	return ev
}
