package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sitefinity"
)

// Compile-time interface verification.
var _ sitefinity.NodeService = (*NodeService)(nil)

// NodeService implements sitefinity.NodeService using SQLite.
type NodeService struct {
	db  *DB
	now func() time.Time
}

// NewNodeService creates a new NodeService.
func NewNodeService(db *DB) *NodeService {
	return &NodeService{db: db, now: time.Now}
}

// CreateNode inserts a node, or replaces the stored node with the same id
// when its content digest changed. A node whose digest is unchanged is left
// as stored, including its updated_at timestamp.
func (s *NodeService) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	if node.ID == "" {
		return sitefinity.Errorf(sitefinity.EINVALID, "node id required")
	}

	fields, err := json.Marshal(node.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields of node %s: %w", node.ID, err)
	}
	now := s.now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, type, locale, content, content_digest, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			locale = excluded.locale,
			content = excluded.content,
			content_digest = excluded.content_digest,
			fields = excluded.fields,
			updated_at = excluded.updated_at
		WHERE nodes.content_digest <> excluded.content_digest
	`, node.ID, node.Internal.Type, node.Locale, node.Internal.Content, node.Internal.ContentDigest,
		string(fields), now, now)
	if err != nil {
		return fmt.Errorf("failed to store node %s: %w", node.ID, err)
	}
	return nil
}

// FindNodeByID retrieves a node by ID.
func (s *NodeService) FindNodeByID(ctx context.Context, id string) (*sitefinity.StoredNode, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, locale, content, content_digest, fields, created_at, updated_at
		FROM nodes
		WHERE id = ?
	`, id)

	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitefinity.Errorf(sitefinity.ENOTFOUND, "node %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// FindNodes retrieves nodes matching the filter, ordered by type, locale
// and id.
func (s *NodeService) FindNodes(ctx context.Context, filter sitefinity.NodeFilter) ([]*sitefinity.StoredNode, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, type, locale, content, content_digest, fields, created_at, updated_at FROM nodes WHERE 1=1")

	if filter.Type != nil {
		query.WriteString(" AND type = ?")
		args = append(args, *filter.Type)
	}
	if filter.Locale != nil {
		query.WriteString(" AND locale = ?")
		args = append(args, *filter.Locale)
	}

	query.WriteString(" ORDER BY type ASC, locale ASC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*sitefinity.StoredNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*sitefinity.StoredNode, error) {
	node := &sitefinity.Node{Children: []string{}}
	var fields, createdAt, updatedAt string

	if err := row.Scan(&node.ID, &node.Internal.Type, &node.Locale, &node.Internal.Content,
		&node.Internal.ContentDigest, &fields, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(fields)))
	dec.UseNumber()
	if err := dec.Decode(&node.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields of node %s: %w", node.ID, err)
	}

	stored := &sitefinity.StoredNode{Node: node}
	var err error
	if stored.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if stored.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return stored, nil
}
