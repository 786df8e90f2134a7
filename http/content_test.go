package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/sitefinity"
	sfhttp "github.com/fwojciec/sitefinity/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that ContentAPI implements sitefinity.ContentAPI
var _ sitefinity.ContentAPI = (*sfhttp.ContentAPI)(nil)

func TestContentAPI_ContentTypes(t *testing.T) {
	t.Parallel()

	t.Run("decodes the service listing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/default", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"@odata.context":"x","value":[{"name":"newsitems","kind":"EntitySet","url":"newsitems"},{"name":"events","url":"events"}]}`))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		types, err := api.ContentTypes(context.Background(), nil, server.URL+"/api/default")

		require.NoError(t, err)
		require.Len(t, types, 2)
		assert.Equal(t, &sitefinity.ContentType{Name: "newsitems", URL: "newsitems"}, types[0])
		assert.Equal(t, "events", types[1].Name)
	})

	t.Run("sends the session authorization", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"value":[]}`))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		_, err := api.ContentTypes(context.Background(), &sitefinity.Session{Authorization: "Bearer abc"}, server.URL)

		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", got)
	})

	t.Run("rejects a listing without a value array", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		_, err := api.ContentTypes(context.Background(), nil, server.URL)

		assert.Equal(t, sitefinity.ETRANSFORM, sitefinity.ErrorCode(err))
	})

	t.Run("returns network error for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("service not found"))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		_, err := api.ContentTypes(context.Background(), nil, server.URL)

		require.Error(t, err)
		assert.Equal(t, sitefinity.ENETWORK, sitefinity.ErrorCode(err))
		assert.Contains(t, sitefinity.ErrorMessage(err), "404")
		assert.Contains(t, sitefinity.ErrorMessage(err), "service not found")
	})
}

func TestContentAPI_Count(t *testing.T) {
	t.Parallel()

	t.Run("parses a bare integer", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/default/news/$count", r.URL.Path)
			assert.Equal(t, "en", r.URL.Query().Get("sf_culture"))
			_, _ = w.Write([]byte("\uFEFF42\n"))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		n, err := api.Count(context.Background(), nil, &sitefinity.FetchTask{
			URL: server.URL + "/api/default/news/$count?sf_culture=en",
		})

		require.NoError(t, err)
		assert.Equal(t, 42, n)
	})

	t.Run("rejects a non-numeric body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>login</html>"))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		_, err := api.Count(context.Background(), nil, &sitefinity.FetchTask{URL: server.URL})

		assert.Equal(t, sitefinity.ETRANSFORM, sitefinity.ErrorCode(err))
	})
}

func TestContentAPI_Page(t *testing.T) {
	t.Parallel()

	t.Run("returns tagged items in response order", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("$skip"))
			assert.Equal(t, "2", r.URL.Query().Get("$top"))
			assert.Equal(t, "*", r.URL.Query().Get("$expand"))
			_, _ = w.Write([]byte(`{"value":[{"Id":"c"},{"Id":"d"}]}`))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		items, err := api.Page(context.Background(), nil, &sitefinity.FetchTask{
			ContentType: "news",
			Locale:      "de",
			URL:         server.URL + "/api/default/news?$skip=2&$top=2&$expand=*",
			Kind:        sitefinity.TaskPage,
		})

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "c", items[0].Fields["Id"])
		assert.Equal(t, "d", items[1].Fields["Id"])
		assert.Equal(t, "news", items[0].ContentType)
		assert.Equal(t, "de", items[0].Locale)
		assert.JSONEq(t, `{"Id":"c"}`, string(items[0].Raw))
	})

	t.Run("rejects a malformed payload", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"value":[`))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI()
		_, err := api.Page(context.Background(), nil, &sitefinity.FetchTask{URL: server.URL})

		assert.Equal(t, sitefinity.ETRANSFORM, sitefinity.ErrorCode(err))
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(`{"value":[]}`))
		}))
		defer server.Close()

		api := sfhttp.NewContentAPI(sfhttp.WithTimeout(10 * time.Millisecond))
		_, err := api.Page(context.Background(), nil, &sitefinity.FetchTask{URL: server.URL})

		require.Error(t, err)
		assert.Equal(t, sitefinity.ENETWORK, sitefinity.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(`{"value":[]}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		api := sfhttp.NewContentAPI()
		_, err := api.Page(ctx, nil, &sitefinity.FetchTask{URL: server.URL})

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		api := sfhttp.NewContentAPI(sfhttp.WithTimeout(100 * time.Millisecond))
		_, err := api.Page(context.Background(), nil, &sitefinity.FetchTask{URL: "http://non-existent-host.invalid/api"})

		require.Error(t, err)
		assert.Equal(t, sitefinity.ENETWORK, sitefinity.ErrorCode(err))
	})
}
