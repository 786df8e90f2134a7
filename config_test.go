package sitefinity_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/sitefinity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() map[string]any {
	return map[string]any{
		"url":         "https://cms.test/",
		"serviceName": "default",
	}
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults and trims trailing slash", func(t *testing.T) {
		t.Parallel()

		cfg, err := sitefinity.ParseConfig(validOptions())

		require.NoError(t, err)
		assert.Equal(t, "https://cms.test", cfg.URL)
		assert.Equal(t, "default", cfg.Service)
		assert.Equal(t, sitefinity.DefaultPageSize, cfg.PageSize)
		assert.Nil(t, cfg.Locales)
		assert.Nil(t, cfg.Types)
		assert.Nil(t, cfg.Credentials)
		assert.False(t, cfg.Localized())
		assert.Equal(t, "https://cms.test/api/default", cfg.ServiceURL())
		assert.Equal(t, "https://cms.test/Sitefinity/Authenticate/OpenID/connect/token", cfg.TokenURL())
	})

	t.Run("parses every option", func(t *testing.T) {
		t.Parallel()

		opts := validOptions()
		opts["languages"] = []any{"en", "de"}
		opts["types"] = []string{"newsitems"}
		opts["pageSize"] = 20
		opts["markdown"] = []any{"Content"}
		opts["plaintext"] = []any{"Summary"}
		opts["auth"] = map[string]any{
			"username":     "admin",
			"password":     "secret",
			"clientId":     "client",
			"clientSecret": "shh",
		}

		cfg, err := sitefinity.ParseConfig(opts)

		require.NoError(t, err)
		assert.Equal(t, []string{"en", "de"}, cfg.Locales)
		assert.True(t, cfg.Localized())
		assert.Equal(t, []string{"newsitems"}, cfg.Types)
		assert.Equal(t, 20, cfg.PageSize)
		assert.Equal(t, []string{"Content"}, cfg.Markdown)
		assert.Equal(t, []string{"Summary"}, cfg.PlainText)
		assert.Equal(t, &sitefinity.Credentials{
			Username:     "admin",
			Password:     "secret",
			ClientID:     "client",
			ClientSecret: "shh",
		}, cfg.Credentials)
	})

	t.Run("accepts numeric page sizes from decoders", func(t *testing.T) {
		t.Parallel()

		for _, v := range []any{float64(10), json.Number("10"), int64(10)} {
			opts := validOptions()
			opts["pageSize"] = v

			cfg, err := sitefinity.ParseConfig(opts)

			require.NoError(t, err)
			assert.Equal(t, 10, cfg.PageSize)
		}
	})

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		message string
	}{
		{"missing url", func(m map[string]any) { delete(m, "url") }, "invalid url option"},
		{"blank url", func(m map[string]any) { m["url"] = "  " }, "invalid url option"},
		{"non-string url", func(m map[string]any) { m["url"] = 42 }, "invalid url option"},
		{"missing service name", func(m map[string]any) { delete(m, "serviceName") }, "invalid serviceName option"},
		{"incomplete auth", func(m map[string]any) {
			m["auth"] = map[string]any{"username": "admin", "password": "secret", "clientId": "client"}
		}, "invalid auth option"},
		{"auth with empty field", func(m map[string]any) {
			m["auth"] = map[string]any{"username": "admin", "password": "", "clientId": "c", "clientSecret": "s"}
		}, "invalid auth option"},
		{"auth not a mapping", func(m map[string]any) { m["auth"] = "admin:secret" }, "invalid auth option"},
		{"empty languages", func(m map[string]any) { m["languages"] = []any{} }, "invalid languages option"},
		{"languages not an array", func(m map[string]any) { m["languages"] = "en" }, "invalid languages option"},
		{"languages with non-string", func(m map[string]any) { m["languages"] = []any{"en", 1} }, "invalid languages option"},
		{"empty types", func(m map[string]any) { m["types"] = []string{} }, "invalid types option"},
		{"types with blank entry", func(m map[string]any) { m["types"] = []any{""} }, "invalid types option"},
		{"zero page size", func(m map[string]any) { m["pageSize"] = 0 }, "invalid pageSize option"},
		{"fractional page size", func(m map[string]any) { m["pageSize"] = 2.5 }, "invalid pageSize option"},
		{"markdown not an array", func(m map[string]any) { m["markdown"] = "Content" }, "invalid markdown option"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			opts := validOptions()
			tt.mutate(opts)

			cfg, err := sitefinity.ParseConfig(opts)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, sitefinity.EINVALID, sitefinity.ErrorCode(err))
			assert.Contains(t, sitefinity.ErrorMessage(err), tt.message)
		})
	}

	t.Run("reports url before other problems", func(t *testing.T) {
		t.Parallel()

		_, err := sitefinity.ParseConfig(map[string]any{"languages": "en"})

		assert.Contains(t, sitefinity.ErrorMessage(err), "invalid url option")
	})

	t.Run("reports auth before languages", func(t *testing.T) {
		t.Parallel()

		opts := validOptions()
		opts["auth"] = map[string]any{}
		opts["languages"] = []any{}

		_, err := sitefinity.ParseConfig(opts)

		assert.Contains(t, sitefinity.ErrorMessage(err), "invalid auth option")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a complete config", func(t *testing.T) {
		t.Parallel()

		cfg := &sitefinity.Config{URL: "https://cms.test", Service: "default", PageSize: 50}

		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects empty locale list", func(t *testing.T) {
		t.Parallel()

		cfg := &sitefinity.Config{URL: "https://cms.test", Service: "default", PageSize: 50, Locales: []string{}}

		err := cfg.Validate()

		assert.Equal(t, sitefinity.EINVALID, sitefinity.ErrorCode(err))
		assert.Contains(t, sitefinity.ErrorMessage(err), "invalid languages option")
	})

	t.Run("rejects missing service", func(t *testing.T) {
		t.Parallel()

		cfg := &sitefinity.Config{URL: "https://cms.test", PageSize: 50}

		assert.Contains(t, sitefinity.ErrorMessage(cfg.Validate()), "invalid serviceName option")
	})
}
