// Package http provides an HTTP implementation of sitefinity.ContentAPI
// for the Sitefinity OData web services.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/sitefinity"
)

// Ensure ContentAPI implements sitefinity.ContentAPI at compile time.
var _ sitefinity.ContentAPI = (*ContentAPI)(nil)

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// ContentAPI issues requests against a Sitefinity web service.
// It holds no per-run state; authorization travels with each call's
// Session, so one ContentAPI can serve concurrent runs for several sites.
type ContentAPI struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a ContentAPI.
type Option func(*ContentAPI)

// WithTimeout sets a timeout for each request. Zero, the default, means
// requests are bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(a *ContentAPI) {
		a.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *ContentAPI) {
		a.client = c
	}
}

// NewContentAPI creates a new ContentAPI.
func NewContentAPI(opts ...Option) *ContentAPI {
	a := &ContentAPI{}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: a.timeout}
	}
	return a
}

// ContentTypes lists the collections exposed at the service root.
func (a *ContentAPI) ContentTypes(ctx context.Context, sess *sitefinity.Session, serviceURL string) ([]*sitefinity.ContentType, error) {
	body, err := a.get(ctx, sess, serviceURL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Value []*sitefinity.ContentType `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, sitefinity.Errorf(sitefinity.ETRANSFORM, "unexpected service listing from %s: %v", serviceURL, err)
	}
	if payload.Value == nil {
		return nil, sitefinity.Errorf(sitefinity.ETRANSFORM, "service listing from %s has no value array", serviceURL)
	}
	return payload.Value, nil
}

// Count returns the total number of items for a count task.
// The $count endpoint answers with a bare integer.
func (a *ContentAPI) Count(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (int, error) {
	body, err := a.get(ctx, sess, task.URL)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(strings.TrimPrefix(string(body), "\uFEFF"))
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, sitefinity.Errorf(sitefinity.ETRANSFORM, "unexpected count %q from %s", truncate(text), task.URL)
	}
	return n, nil
}

// Page returns the items of a page task.
func (a *ContentAPI) Page(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) ([]*sitefinity.Item, error) {
	body, err := a.get(ctx, sess, task.URL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, sitefinity.Errorf(sitefinity.ETRANSFORM, "unexpected page payload from %s: %v", task.URL, err)
	}

	items := make([]*sitefinity.Item, 0, len(payload.Value))
	for _, raw := range payload.Value {
		item, err := sitefinity.NewItem(raw)
		if err != nil {
			return nil, err
		}
		item.ContentType = task.ContentType
		item.Locale = task.Locale
		items = append(items, item)
	}
	return items, nil
}

// get performs a GET request and returns the body of a 2xx response.
func (a *ContentAPI) get(ctx context.Context, sess *sitefinity.Session, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sitefinity.Errorf(sitefinity.ENETWORK, "creating request for %s: %v", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if sess != nil && sess.Authorization != "" {
		req.Header.Set("Authorization", sess.Authorization)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, sitefinity.Errorf(sitefinity.ENETWORK, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sitefinity.Errorf(sitefinity.ENETWORK, "reading %s: %v", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := truncate(string(bytes.TrimSpace(body)))
		if detail == "" {
			return nil, sitefinity.Errorf(sitefinity.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
		}
		return nil, sitefinity.Errorf(sitefinity.ENETWORK, "HTTP %d for %s: %s", resp.StatusCode, url, detail)
	}

	return body, nil
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:maxErrorBody], len(s))
}
