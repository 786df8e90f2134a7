package sitefinity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// ContentType describes one remote content collection listed at the
// service root.
type ContentType struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Path returns the collection path relative to the service root.
// Services that omit the url fall back to the collection name.
func (t *ContentType) Path() string {
	if t.URL != "" {
		return t.URL
	}
	return t.Name
}

// TaskKind distinguishes count requests from page requests.
type TaskKind int

const (
	TaskCount TaskKind = iota
	TaskPage
)

func (k TaskKind) String() string {
	switch k {
	case TaskCount:
		return "count"
	case TaskPage:
		return "page"
	}
	return "unknown"
}

// FetchTask is one planned HTTP request. Tasks are created by the count
// and page planners and consumed once by the executor.
type FetchTask struct {
	ContentType string
	Path        string
	Locale      string
	URL         string
	Kind        TaskKind
	Skip        int
	Top         int
}

// Item is a single content entry returned by the API.
type Item struct {
	ContentType string
	Locale      string

	// Raw is the compact JSON encoding of the entry as received.
	Raw json.RawMessage

	// Fields holds the decoded entry. Numbers are kept as json.Number so
	// re-encoding does not lose precision.
	Fields map[string]any
}

// NewItem decodes a raw JSON object into an Item.
func NewItem(raw []byte) (*Item, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, Errorf(ETRANSFORM, "malformed content item: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, Errorf(ETRANSFORM, "content item is not a JSON object")
	}

	return &Item{Raw: buf.Bytes(), Fields: fields}, nil
}

// ID returns the entry's Id field formatted as a string.
// Returns ETRANSFORM if the entry has no usable Id.
func (i *Item) ID() (string, error) {
	v, ok := i.Fields["Id"]
	if !ok || v == nil {
		return "", Errorf(ETRANSFORM, "%s item has no Id field", i.ContentType)
	}
	id := fmt.Sprint(v)
	if id == "" {
		return "", Errorf(ETRANSFORM, "%s item has an empty Id field", i.ContentType)
	}
	return id, nil
}

// Session carries per-run request state. A nil Session means anonymous
// access.
type Session struct {
	// Authorization is sent verbatim as the Authorization header.
	Authorization string
}

// ContentAPI performs the HTTP requests of a sourcing run.
type ContentAPI interface {
	// ContentTypes lists the collections exposed at the service root.
	ContentTypes(ctx context.Context, sess *Session, serviceURL string) ([]*ContentType, error)

	// Count returns the total number of items for a count task.
	Count(ctx context.Context, sess *Session, task *FetchTask) (int, error)

	// Page returns the items of a page task, tagged with the task's
	// content type and locale.
	Page(ctx context.Context, sess *Session, task *FetchTask) ([]*Item, error)
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	// Authenticate returns EUNAUTHORIZED when the token endpoint answers
	// 401 and EAUTH for any other rejection.
	Authenticate(ctx context.Context, tokenURL string, creds *Credentials) (*Session, error)
}

// RequestLimiter paces outgoing requests per host.
type RequestLimiter interface {
	// Wait blocks until the limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
