package mock

import (
	"context"

	"github.com/fwojciec/sitefinity"
)

var _ sitefinity.NodeWriter = (*NodeWriter)(nil)

// NodeWriter is a mock implementation of sitefinity.NodeWriter.
type NodeWriter struct {
	CreateNodeFn func(ctx context.Context, node *sitefinity.Node) error
}

func (w *NodeWriter) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	return w.CreateNodeFn(ctx, node)
}

var _ sitefinity.Host = (*Host)(nil)

// Host is a mock implementation of sitefinity.Host.
type Host struct {
	CreateNodeFn   func(ctx context.Context, node *sitefinity.Node) error
	CreateNodeIDFn func(key string) string
}

func (h *Host) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	return h.CreateNodeFn(ctx, node)
}

func (h *Host) CreateNodeID(key string) string {
	return h.CreateNodeIDFn(key)
}

var _ sitefinity.NodeService = (*NodeService)(nil)

// NodeService is a mock implementation of sitefinity.NodeService.
type NodeService struct {
	CreateNodeFn   func(ctx context.Context, node *sitefinity.Node) error
	FindNodeByIDFn func(ctx context.Context, id string) (*sitefinity.StoredNode, error)
	FindNodesFn    func(ctx context.Context, filter sitefinity.NodeFilter) ([]*sitefinity.StoredNode, error)
}

func (s *NodeService) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	return s.CreateNodeFn(ctx, node)
}

func (s *NodeService) FindNodeByID(ctx context.Context, id string) (*sitefinity.StoredNode, error) {
	return s.FindNodeByIDFn(ctx, id)
}

func (s *NodeService) FindNodes(ctx context.Context, filter sitefinity.NodeFilter) ([]*sitefinity.StoredNode, error) {
	return s.FindNodesFn(ctx, filter)
}
