package tokenstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slogGormLogger bridges GORM's logger.Interface onto slog. Queries are only
// logged on error; SQL text never includes token values because tokens are
// bound parameters.
type slogGormLogger struct {
	logger *slog.Logger
}

var _ logger.Interface = (*slogGormLogger)(nil)

func (gormLogger *slogGormLogger) LogMode(logger.LogLevel) logger.Interface {
	return gormLogger
}

func (gormLogger *slogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	gormLogger.logger.Info(msg, data...)
}

func (gormLogger *slogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	gormLogger.logger.Warn(msg, data...)
}

func (gormLogger *slogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	gormLogger.logger.Error(msg, data...)
}

func (gormLogger *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	sql, rows := fc()
	gormLogger.logger.Error("query failed",
		"error", err,
		"sql", sql,
		"rows", rows,
		"elapsed", time.Since(begin),
	)
}
