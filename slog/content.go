// Package slog provides log/slog decorators for the sitefinity ports.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitefinity"
)

// Ensure LoggingContentAPI implements sitefinity.ContentAPI.
var _ sitefinity.ContentAPI = (*LoggingContentAPI)(nil)

// LoggingContentAPI wraps a ContentAPI with request logging.
type LoggingContentAPI struct {
	next   sitefinity.ContentAPI
	logger *slog.Logger
}

// NewLoggingContentAPI creates a new LoggingContentAPI.
func NewLoggingContentAPI(next sitefinity.ContentAPI, logger *slog.Logger) *LoggingContentAPI {
	return &LoggingContentAPI{next: next, logger: logger}
}

// ContentTypes delegates to the wrapped API and logs the operation.
func (a *LoggingContentAPI) ContentTypes(ctx context.Context, sess *sitefinity.Session, serviceURL string) (types []*sitefinity.ContentType, err error) {
	defer func(begin time.Time) {
		a.logger.Info("discover content types",
			"url", serviceURL,
			"count", len(types),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.ContentTypes(ctx, sess, serviceURL)
}

// Count delegates to the wrapped API and logs the operation.
func (a *LoggingContentAPI) Count(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (n int, err error) {
	defer func(begin time.Time) {
		a.logger.Info("count",
			"type", task.ContentType,
			"locale", task.Locale,
			"url", task.URL,
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Count(ctx, sess, task)
}

// Page delegates to the wrapped API and logs the operation.
func (a *LoggingContentAPI) Page(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (items []*sitefinity.Item, err error) {
	defer func(begin time.Time) {
		a.logger.Info("page",
			"type", task.ContentType,
			"locale", task.Locale,
			"skip", task.Skip,
			"top", task.Top,
			"count", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Page(ctx, sess, task)
}
