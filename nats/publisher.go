// Package nats publishes registered nodes to a NATS subject.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/sitefinity"
	"github.com/nats-io/nats.go"
)

// Ensure Publisher implements sitefinity.NodeWriter at compile time.
var _ sitefinity.NodeWriter = (*Publisher)(nil)

// Header names set on every node message.
const (
	HeaderNodeID        = "Sitefinity-Node-Id"
	HeaderNodeType      = "Sitefinity-Node-Type"
	HeaderContentDigest = "Sitefinity-Content-Digest"
)

// DefaultSubject is the subject prefix used when none is configured.
const DefaultSubject = "sitefinity"

// Conn is the subset of *nats.Conn used by Publisher.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Publisher publishes each node as JSON to "{subject}.{type}". The message
// id header is derived from node id and digest, so a JetStream stream with
// deduplication drops unchanged nodes.
type Publisher struct {
	conn    Conn
	subject string
}

// NewPublisher creates a Publisher on an existing connection.
func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

// Connect dials the NATS server at url and returns a Publisher.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitefinity"),
		nats.Timeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewPublisher(conn, subject), nil
}

// Subject returns the subject a node is published to.
func (p *Publisher) Subject(node *sitefinity.Node) string {
	return p.subject + "." + node.Internal.Type
}

// CreateNode publishes a node.
func (p *Publisher) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	data, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to marshal node %s: %w", node.ID, err)
	}

	msg := nats.NewMsg(p.Subject(node))
	msg.Data = data
	msg.Header.Set(HeaderNodeID, node.ID)
	msg.Header.Set(HeaderNodeType, node.Internal.Type)
	msg.Header.Set(HeaderContentDigest, node.Internal.ContentDigest)
	msg.Header.Set(nats.MsgIdHdr, node.ID+":"+node.Internal.ContentDigest)

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish node %s: %w", node.ID, err)
	}
	return nil
}

// Close flushes pending messages and drains the connection.
func (p *Publisher) Close(ctx context.Context) error {
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return p.conn.Drain()
}
