// Package uuid derives stable node ids the way the host framework does:
// a UUID v5 of the key inside a namespace derived from the plugin name.
package uuid

import (
	"context"

	"github.com/fwojciec/sitefinity"
	"github.com/google/uuid"
)

// Ensure Host implements sitefinity.Host at compile time.
var _ sitefinity.Host = (*Host)(nil)

// DefaultPlugin is the plugin name node ids are namespaced by.
const DefaultPlugin = "gatsby-source-sitefinity"

// seed is the host framework's fixed namespace for plugin namespaces.
var seed = uuid.MustParse("638f7a53-c567-4eca-8fc1-b23efb1cfb2b")

// Host combines a NodeWriter with deterministic node ids.
type Host struct {
	writer    sitefinity.NodeWriter
	namespace uuid.UUID
}

// NewHost creates a Host writing to w with ids namespaced by plugin.
// An empty plugin means DefaultPlugin.
func NewHost(w sitefinity.NodeWriter, plugin string) *Host {
	if plugin == "" {
		plugin = DefaultPlugin
	}
	return &Host{
		writer:    w,
		namespace: Namespace(plugin),
	}
}

// Namespace returns the UUID namespace for a plugin name.
func Namespace(plugin string) uuid.UUID {
	return uuid.NewSHA1(seed, []byte(plugin))
}

// CreateNodeID returns the UUID v5 of key in the host's namespace.
func (h *Host) CreateNodeID(key string) string {
	return uuid.NewSHA1(h.namespace, []byte(key)).String()
}

// CreateNode forwards the node to the underlying writer.
func (h *Host) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	return h.writer.CreateNode(ctx, node)
}
