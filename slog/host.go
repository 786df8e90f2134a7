package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitefinity"
)

// Ensure LoggingHost implements sitefinity.Host.
var _ sitefinity.Host = (*LoggingHost)(nil)

// LoggingHost wraps a Host with debug logging of node registration.
type LoggingHost struct {
	next   sitefinity.Host
	logger *slog.Logger
}

// NewLoggingHost creates a new LoggingHost.
func NewLoggingHost(next sitefinity.Host, logger *slog.Logger) *LoggingHost {
	return &LoggingHost{next: next, logger: logger}
}

// CreateNodeID delegates to the wrapped host.
func (h *LoggingHost) CreateNodeID(key string) string {
	return h.next.CreateNodeID(key)
}

// CreateNode delegates to the wrapped host and logs the node.
func (h *LoggingHost) CreateNode(ctx context.Context, node *sitefinity.Node) (err error) {
	defer func() {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "create node",
			"id", node.ID,
			"type", node.Internal.Type,
			"locale", node.Locale,
			"digest", node.Internal.ContentDigest,
			"err", err,
		)
	}()
	return h.next.CreateNode(ctx, node)
}
