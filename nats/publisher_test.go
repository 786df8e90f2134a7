package nats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/sitefinity"
	sfnats "github.com/fwojciec/sitefinity/nats"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	msgs       []*nats.Msg
	publishErr error
	flushed    bool
	drained    bool
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) FlushWithContext(context.Context) error {
	c.flushed = true
	return nil
}

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

func testNode() *sitefinity.Node {
	return &sitefinity.Node{
		ID:       "abc",
		Children: []string{},
		Fields:   map[string]any{"Id": "1"},
		Internal: sitefinity.NodeInternal{
			Type:          "SitefinityNews",
			Content:       `{"Id":"1"}`,
			ContentDigest: "digest",
		},
	}
}

func TestPublisher_CreateNode(t *testing.T) {
	t.Parallel()

	t.Run("publishes to the type subject with headers", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{}
		p := sfnats.NewPublisher(conn, "cms")

		require.NoError(t, p.CreateNode(context.Background(), testNode()))

		require.Len(t, conn.msgs, 1)
		msg := conn.msgs[0]
		assert.Equal(t, "cms.SitefinityNews", msg.Subject)
		assert.Equal(t, "abc", msg.Header.Get(sfnats.HeaderNodeID))
		assert.Equal(t, "SitefinityNews", msg.Header.Get(sfnats.HeaderNodeType))
		assert.Equal(t, "digest", msg.Header.Get(sfnats.HeaderContentDigest))
		assert.Equal(t, "abc:digest", msg.Header.Get(nats.MsgIdHdr))

		var got map[string]any
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "abc", got["id"])
		assert.Equal(t, "1", got["Id"])
	})

	t.Run("defaults the subject prefix", func(t *testing.T) {
		t.Parallel()

		p := sfnats.NewPublisher(&fakeConn{}, "")

		assert.Equal(t, "sitefinity.SitefinityNews", p.Subject(testNode()))
	})

	t.Run("wraps publish errors", func(t *testing.T) {
		t.Parallel()

		p := sfnats.NewPublisher(&fakeConn{publishErr: nats.ErrConnectionClosed}, "")
		err := p.CreateNode(context.Background(), testNode())

		require.Error(t, err)
		assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
	})
}

func TestPublisher_Close(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	p := sfnats.NewPublisher(conn, "")

	require.NoError(t, p.Close(context.Background()))
	assert.True(t, conn.flushed)
	assert.True(t, conn.drained)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	_, err := sfnats.Connect("nats://127.0.0.1:1", "")

	require.Error(t, err)
}
