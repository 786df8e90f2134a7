package sitefinity

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// TypePrefix is prepended to node type names to avoid collisions with
// nodes from other sources.
const TypePrefix = "Sitefinity"

// Node is the normalized record registered with the host content graph.
type Node struct {
	ID       string
	Parent   *string
	Children []string
	Internal NodeInternal

	// Locale is empty when locales are not configured.
	Locale string

	// Fields holds the content item's own fields plus any converted
	// sibling fields.
	Fields map[string]any
}

// NodeInternal holds host bookkeeping for a node.
type NodeInternal struct {
	Content       string `json:"content"`
	ContentDigest string `json:"contentDigest"`
	Type          string `json:"type"`
}

// MarshalJSON flattens item fields and node metadata into one object.
// Metadata wins when an item field has the same name.
func (n *Node) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Fields)+5)
	for k, v := range n.Fields {
		m[k] = v
	}
	children := n.Children
	if children == nil {
		children = []string{}
	}
	m["id"] = n.ID
	m["parent"] = n.Parent
	m["children"] = children
	m["internal"] = n.Internal
	if n.Locale != "" {
		m["locale"] = n.Locale
	}
	return json.Marshal(m)
}

// DigestFunc hashes serialized node content.
type DigestFunc func(content string) string

// DigestMD5 returns the hex MD5 digest of content.
func DigestMD5(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// NodeKey returns the composite key node ids are derived from.
func NodeKey(itemID, locale string) string {
	if locale == "" {
		return "sitefinity-" + itemID
	}
	return "sitefinity-" + itemID + "-" + locale
}

// NewNode builds a graph node from a content item. createNodeID derives the
// node id from the composite key; digest defaults to DigestMD5.
func NewNode(item *Item, createNodeID func(key string) string, digest DigestFunc) (*Node, error) {
	itemID, err := item.ID()
	if err != nil {
		return nil, err
	}
	if digest == nil {
		digest = DigestMD5
	}

	fields := make(map[string]any, len(item.Fields))
	for k, v := range item.Fields {
		fields[k] = v
	}

	content := string(item.Raw)
	return &Node{
		ID:       createNodeID(NodeKey(itemID, item.Locale)),
		Children: []string{},
		Internal: NodeInternal{
			Content:       content,
			ContentDigest: digest(content),
			Type:          TypeName(item.ContentType),
		},
		Locale: item.Locale,
		Fields: fields,
	}, nil
}

// TypeName converts a content type name into a prefixed PascalCase node
// type, e.g. "news-items" becomes "SitefinityNewsItems".
func TypeName(contentType string) string {
	var b strings.Builder
	b.WriteString(TypePrefix)
	for _, w := range splitWords(contentType) {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

// splitWords splits s on separators, lower-to-upper transitions, the end of
// an acronym ("HTMLPage" -> "HTML", "Page") and letter/digit transitions.
func splitWords(s string) []string {
	rs := []rune(s)
	var words []string
	start := -1
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if start >= 0 {
				words = append(words, string(rs[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}

		prev := rs[i-1]
		var boundary bool
		switch {
		case unicode.IsDigit(prev) != unicode.IsDigit(r):
			boundary = true
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
			boundary = true
		}
		if boundary {
			words = append(words, string(rs[start:i]))
			start = i
		}
	}
	if start >= 0 {
		words = append(words, string(rs[start:]))
	}
	return words
}

// NodeWriter stores or forwards registered nodes.
type NodeWriter interface {
	CreateNode(ctx context.Context, node *Node) error
}

// Host is the capability a sourcing run registers nodes with.
type Host interface {
	NodeWriter

	// CreateNodeID derives a stable node id from a composite key.
	CreateNodeID(key string) string
}

// StoredNode is a node as persisted by a NodeService.
type StoredNode struct {
	Node      *Node
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NodeService represents a service for managing persisted nodes.
type NodeService interface {
	NodeWriter

	// FindNodeByID retrieves a node by ID.
	// Returns ENOTFOUND if the node does not exist.
	FindNodeByID(ctx context.Context, id string) (*StoredNode, error)

	// FindNodes retrieves nodes matching the filter.
	FindNodes(ctx context.Context, filter NodeFilter) ([]*StoredNode, error)
}

// NodeFilter represents a filter for FindNodes.
type NodeFilter struct {
	Type   *string `json:"type"`
	Locale *string `json:"locale"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Console reports the outcome of a run to the user.
type Console interface {
	Error(msg string)
	Success(msg string)
}
