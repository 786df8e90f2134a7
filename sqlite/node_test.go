package sqlite_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fwojciec/sitefinity"
	"github.com/fwojciec/sitefinity/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNode(id, typ, locale, content string) *sitefinity.Node {
	var fields map[string]any
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		panic(err)
	}
	return &sitefinity.Node{
		ID:       id,
		Children: []string{},
		Locale:   locale,
		Fields:   fields,
		Internal: sitefinity.NodeInternal{
			Type:          typ,
			Content:       content,
			ContentDigest: sitefinity.DigestMD5(content),
		},
	}
}

func TestNodeService_CreateNode(t *testing.T) {
	t.Parallel()

	t.Run("stores a node with timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNodeService(db)
		ctx := context.Background()

		node := testNode("n1", "SitefinityNews", "en", `{"Id":"1","Title":"Hello","Views":12}`)
		require.NoError(t, svc.CreateNode(ctx, node))

		got, err := svc.FindNodeByID(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "SitefinityNews", got.Node.Internal.Type)
		assert.Equal(t, "en", got.Node.Locale)
		assert.Equal(t, node.Internal.Content, got.Node.Internal.Content)
		assert.Equal(t, node.Internal.ContentDigest, got.Node.Internal.ContentDigest)
		assert.Equal(t, "Hello", got.Node.Fields["Title"])
		assert.Equal(t, json.Number("12"), got.Node.Fields["Views"])
		assert.False(t, got.CreatedAt.IsZero())
		assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	})

	t.Run("skips a node whose digest is unchanged", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNodeService(db)
		ctx := context.Background()

		first := testNode("n1", "SitefinityNews", "", `{"Id":"1","Title":"Hello"}`)
		require.NoError(t, svc.CreateNode(ctx, first))

		same := testNode("n1", "SitefinityNews", "", `{"Id":"1","Title":"Hello"}`)
		same.Fields["Title"] = "changed without a new digest"
		require.NoError(t, svc.CreateNode(ctx, same))

		got, err := svc.FindNodeByID(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "Hello", got.Node.Fields["Title"])
	})

	t.Run("replaces a node whose digest changed", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNodeService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateNode(ctx, testNode("n1", "SitefinityNews", "", `{"Id":"1","Title":"Hello"}`)))
		require.NoError(t, svc.CreateNode(ctx, testNode("n1", "SitefinityNews", "", `{"Id":"1","Title":"Updated"}`)))

		got, err := svc.FindNodeByID(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Node.Fields["Title"])
		assert.Equal(t, sitefinity.DigestMD5(`{"Id":"1","Title":"Updated"}`), got.Node.Internal.ContentDigest)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

		nodes, err := svc.FindNodes(ctx, sitefinity.NodeFilter{})
		require.NoError(t, err)
		assert.Len(t, nodes, 1)
	})

	t.Run("rejects a node without id", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewNodeService(setupTestDB(t))
		err := svc.CreateNode(context.Background(), &sitefinity.Node{})

		assert.Equal(t, sitefinity.EINVALID, sitefinity.ErrorCode(err))
	})
}

func TestNodeService_FindNodeByID(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewNodeService(setupTestDB(t))
	_, err := svc.FindNodeByID(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, sitefinity.ENOTFOUND, sitefinity.ErrorCode(err))
}

func TestNodeService_FindNodes(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.NodeService {
		t.Helper()
		svc := sqlite.NewNodeService(setupTestDB(t))
		ctx := context.Background()
		for i := range 3 {
			for _, locale := range []string{"en", "de"} {
				content := fmt.Sprintf(`{"Id":"%d"}`, i)
				require.NoError(t, svc.CreateNode(ctx, testNode(fmt.Sprintf("news-%d-%s", i, locale), "SitefinityNews", locale, content)))
			}
		}
		require.NoError(t, svc.CreateNode(ctx, testNode("event-0", "SitefinityEvents", "en", `{"Id":"e"}`)))
		return svc
	}

	t.Run("filters by type", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		typ := "SitefinityEvents"
		nodes, err := svc.FindNodes(context.Background(), sitefinity.NodeFilter{Type: &typ})

		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "event-0", nodes[0].Node.ID)
	})

	t.Run("filters by type and locale", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		typ, locale := "SitefinityNews", "de"
		nodes, err := svc.FindNodes(context.Background(), sitefinity.NodeFilter{Type: &typ, Locale: &locale})

		require.NoError(t, err)
		require.Len(t, nodes, 3)
		for _, n := range nodes {
			assert.Equal(t, "de", n.Node.Locale)
		}
	})

	t.Run("paginates with limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		all, err := svc.FindNodes(context.Background(), sitefinity.NodeFilter{})
		require.NoError(t, err)
		require.Len(t, all, 7)

		page, err := svc.FindNodes(context.Background(), sitefinity.NodeFilter{Offset: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, all[2].Node.ID, page[0].Node.ID)

		tail, err := svc.FindNodes(context.Background(), sitefinity.NodeFilter{Offset: 5})
		require.NoError(t, err)
		assert.Len(t, tail, 2)
	})
}
