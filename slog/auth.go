package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitefinity"
)

// Ensure LoggingAuthenticator implements sitefinity.Authenticator.
var _ sitefinity.Authenticator = (*LoggingAuthenticator)(nil)

// LoggingAuthenticator wraps an Authenticator with logging. Credentials
// and tokens are never logged.
type LoggingAuthenticator struct {
	next   sitefinity.Authenticator
	logger *slog.Logger
}

// NewLoggingAuthenticator creates a new LoggingAuthenticator.
func NewLoggingAuthenticator(next sitefinity.Authenticator, logger *slog.Logger) *LoggingAuthenticator {
	return &LoggingAuthenticator{next: next, logger: logger}
}

// Authenticate delegates to the wrapped authenticator and logs the operation.
func (a *LoggingAuthenticator) Authenticate(ctx context.Context, tokenURL string, creds *sitefinity.Credentials) (sess *sitefinity.Session, err error) {
	defer func(begin time.Time) {
		var user string
		if creds != nil {
			user = creds.Username
		}
		a.logger.Info("authenticate",
			"url", tokenURL,
			"user", user,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Authenticate(ctx, tokenURL, creds)
}
