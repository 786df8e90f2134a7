// Package fs writes registered nodes as JSON files or JSON lines.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/sitefinity"
)

// NodePath returns the relative file path of a node.
// Example: node abc of type SitefinityNews → SitefinityNews/abc.json
func NodePath(node *sitefinity.Node) (string, error) {
	if node.ID == "" {
		return "", sitefinity.Errorf(sitefinity.EINVALID, "node id required")
	}
	if node.Internal.Type == "" {
		return "", sitefinity.Errorf(sitefinity.EINVALID, "node type required")
	}
	return filepath.Join(safeName(node.Internal.Type), safeName(node.ID)+".json"), nil
}

// safeName keeps a path element inside its directory.
func safeName(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "." || s == ".." {
		return "_"
	}
	return s
}

// Ensure Writer implements sitefinity.NodeWriter at compile time.
var _ sitefinity.NodeWriter = (*Writer)(nil)

// Writer writes nodes as JSON files to a directory, one per node.
// Writing a node again overwrites its file.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateNode writes a node to disk as a JSON file.
func (w *Writer) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	relPath, err := NodePath(node)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode node %s: %w", node.ID, err)
	}
	return os.WriteFile(fullPath, append(data, '\n'), 0644)
}

// Ensure StreamWriter implements sitefinity.NodeWriter at compile time.
var _ sitefinity.NodeWriter = (*StreamWriter)(nil)

// StreamWriter writes nodes as JSON lines to an io.Writer.
// It is safe for concurrent use.
type StreamWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStreamWriter creates a new StreamWriter.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{enc: json.NewEncoder(w)}
}

// CreateNode writes a node as one line of JSON.
func (w *StreamWriter) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(node); err != nil {
		return fmt.Errorf("failed to write node %s: %w", node.ID, err)
	}
	return nil
}
