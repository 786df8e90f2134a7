package sitefinity

import (
	"encoding/json"
	"math"
	"strings"
)

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 50

// Option keys accepted by ParseConfig.
const (
	OptionURL         = "url"
	OptionServiceName = "serviceName"
	OptionAuth        = "auth"
	OptionLanguages   = "languages"
	OptionTypes       = "types"
	OptionPageSize    = "pageSize"
	OptionMarkdown    = "markdown"
	OptionPlainText   = "plaintext"
)

// Config holds the options for a single sourcing run.
type Config struct {
	// URL is the site root, without a trailing slash.
	URL string `json:"url"`

	// Service is the web service name exposed under /api/.
	Service string `json:"serviceName"`

	// Locales is nil when content is not localized.
	Locales []string `json:"languages,omitempty"`

	// Types restricts sourcing to the named content types. Nil means all.
	Types []string `json:"types,omitempty"`

	Credentials *Credentials `json:"auth,omitempty"`

	PageSize int `json:"pageSize"`

	// Markdown and PlainText name item fields holding rich-text HTML that
	// should gain converted sibling fields on the node.
	Markdown  []string `json:"markdown,omitempty"`
	PlainText []string `json:"plaintext,omitempty"`
}

// Credentials are exchanged for a bearer token with the password grant.
type Credentials struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Localized reports whether requests are made per locale.
func (c *Config) Localized() bool {
	return c.Locales != nil
}

// ServiceURL returns the root of the configured web service.
func (c *Config) ServiceURL() string {
	return c.URL + "/api/" + c.Service
}

// TokenURL returns the OpenID Connect token endpoint of the site.
func (c *Config) TokenURL() string {
	return c.URL + "/Sitefinity/Authenticate/OpenID/connect/token"
}

// Validate returns an error if the config contains invalid fields.
// Checks run in a fixed order so the first problem reported is stable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "invalid %s option: you must provide the sitefinity site url", OptionURL)
	}
	if c.Service == "" {
		return Errorf(EINVALID, "invalid %s option: you must provide the sitefinity web service name", OptionServiceName)
	}
	if c.Credentials != nil {
		cr := c.Credentials
		if cr.Username == "" || cr.Password == "" || cr.ClientID == "" || cr.ClientSecret == "" {
			return Errorf(EINVALID, "invalid %s option: username, password, clientId and clientSecret are required", OptionAuth)
		}
	}
	if c.Locales != nil && !nonEmptyStrings(c.Locales) {
		return Errorf(EINVALID, "invalid %s option: %v. must be a non-empty string array", OptionLanguages, c.Locales)
	}
	if c.Types != nil && !nonEmptyStrings(c.Types) {
		return Errorf(EINVALID, "invalid %s option: %v. must be a non-empty string array", OptionTypes, c.Types)
	}
	if c.PageSize <= 0 {
		return Errorf(EINVALID, "invalid %s option: %d. must be a positive integer", OptionPageSize, c.PageSize)
	}
	return nil
}

func nonEmptyStrings(ss []string) bool {
	if len(ss) == 0 {
		return false
	}
	for _, s := range ss {
		if s == "" {
			return false
		}
	}
	return true
}

// ParseConfig builds a Config from a raw option mapping as supplied by a
// host or decoded from a config file. It checks the shape of every option
// and returns an EINVALID error describing the first violation.
func ParseConfig(options map[string]any) (*Config, error) {
	cfg := &Config{PageSize: DefaultPageSize}

	url, ok := options[OptionURL].(string)
	if !ok || strings.TrimSpace(url) == "" {
		return nil, Errorf(EINVALID, "invalid %s option: you must provide the sitefinity site url", OptionURL)
	}
	cfg.URL = strings.TrimRight(strings.TrimSpace(url), "/")

	service, ok := options[OptionServiceName].(string)
	if !ok || strings.TrimSpace(service) == "" {
		return nil, Errorf(EINVALID, "invalid %s option: you must provide the sitefinity web service name", OptionServiceName)
	}
	cfg.Service = strings.Trim(strings.TrimSpace(service), "/")

	if raw, ok := options[OptionAuth]; ok && raw != nil {
		creds, ok := parseCredentials(raw)
		if !ok {
			return nil, Errorf(EINVALID, "invalid %s option: username, password, clientId and clientSecret are required", OptionAuth)
		}
		cfg.Credentials = creds
	}

	var err error
	if cfg.Locales, err = stringsOption(options, OptionLanguages); err != nil {
		return nil, err
	}
	if cfg.Types, err = stringsOption(options, OptionTypes); err != nil {
		return nil, err
	}

	if raw, ok := options[OptionPageSize]; ok && raw != nil {
		n, ok := toInt(raw)
		if !ok || n <= 0 {
			return nil, Errorf(EINVALID, "invalid %s option: %v. must be a positive integer", OptionPageSize, raw)
		}
		cfg.PageSize = n
	}

	if cfg.Markdown, err = stringsOption(options, OptionMarkdown); err != nil {
		return nil, err
	}
	if cfg.PlainText, err = stringsOption(options, OptionPlainText); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringsOption returns nil when the key is absent, the values when it holds
// a non-empty array of non-empty strings, and an error otherwise.
func stringsOption(options map[string]any, key string) ([]string, error) {
	raw, ok := options[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var out []string
	switch v := raw.(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, Errorf(EINVALID, "invalid %s option: %v. must be a string array", key, raw)
			}
			out = append(out, s)
		}
	default:
		return nil, Errorf(EINVALID, "invalid %s option: %v. must be a string array", key, raw)
	}

	if !nonEmptyStrings(out) {
		return nil, Errorf(EINVALID, "invalid %s option: %v. must be a non-empty string array", key, raw)
	}
	return out, nil
}

func parseCredentials(raw any) (*Credentials, bool) {
	var m map[string]any
	switch v := raw.(type) {
	case map[string]any:
		m = v
	case map[string]string:
		m = make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
	case *Credentials:
		m = map[string]any{"username": v.Username, "password": v.Password, "clientId": v.ClientID, "clientSecret": v.ClientSecret}
	default:
		return nil, false
	}

	get := func(key string) (string, bool) {
		s, ok := m[key].(string)
		return s, ok && s != ""
	}

	var creds Credentials
	var ok bool
	if creds.Username, ok = get("username"); !ok {
		return nil, false
	}
	if creds.Password, ok = get("password"); !ok {
		return nil, false
	}
	if creds.ClientID, ok = get("clientId"); !ok {
		return nil, false
	}
	if creds.ClientSecret, ok = get("clientSecret"); !ok {
		return nil, false
	}
	return &creds, true
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}
