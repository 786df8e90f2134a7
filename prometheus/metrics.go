// Package prometheus instruments the sitefinity ports with Prometheus
// metrics.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/sitefinity"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the collectors of a sourcing process.
type Metrics struct {
	requests *prom.CounterVec
	duration *prom.HistogramVec
	nodes    *prom.CounterVec
}

// NewMetrics constructs the collectors and registers them with reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg prom.Registerer) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitefinity",
			Name:      "requests_total",
			Help:      "Requests to the Sitefinity service by kind and result",
		}, []string{"kind", "result"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitefinity",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests to the Sitefinity service",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		nodes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitefinity",
			Name:      "nodes_total",
			Help:      "Nodes registered with the host by node type",
		}, []string{"type"}),
	}
	reg.MustRegister(m.requests, m.duration, m.nodes)
	return m
}

// ObserveRequest records one request of the given kind.
func (m *Metrics) ObserveRequest(kind string, d time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.requests.WithLabelValues(kind, result).Inc()
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}

// IncNodes records one registered node.
func (m *Metrics) IncNodes(nodeType string) {
	m.nodes.WithLabelValues(nodeType).Inc()
}

// Request kinds.
const (
	KindDiscover     = "discover"
	KindCount        = "count"
	KindPage         = "page"
	KindAuthenticate = "authenticate"
)

// Ensure InstrumentedContentAPI implements sitefinity.ContentAPI.
var _ sitefinity.ContentAPI = (*InstrumentedContentAPI)(nil)

// InstrumentedContentAPI wraps a ContentAPI with request metrics.
type InstrumentedContentAPI struct {
	next    sitefinity.ContentAPI
	metrics *Metrics
}

// NewInstrumentedContentAPI creates a new InstrumentedContentAPI.
func NewInstrumentedContentAPI(next sitefinity.ContentAPI, metrics *Metrics) *InstrumentedContentAPI {
	return &InstrumentedContentAPI{next: next, metrics: metrics}
}

func (a *InstrumentedContentAPI) ContentTypes(ctx context.Context, sess *sitefinity.Session, serviceURL string) (types []*sitefinity.ContentType, err error) {
	defer func(begin time.Time) { a.metrics.ObserveRequest(KindDiscover, time.Since(begin), err) }(time.Now())
	return a.next.ContentTypes(ctx, sess, serviceURL)
}

func (a *InstrumentedContentAPI) Count(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (n int, err error) {
	defer func(begin time.Time) { a.metrics.ObserveRequest(KindCount, time.Since(begin), err) }(time.Now())
	return a.next.Count(ctx, sess, task)
}

func (a *InstrumentedContentAPI) Page(ctx context.Context, sess *sitefinity.Session, task *sitefinity.FetchTask) (items []*sitefinity.Item, err error) {
	defer func(begin time.Time) { a.metrics.ObserveRequest(KindPage, time.Since(begin), err) }(time.Now())
	return a.next.Page(ctx, sess, task)
}

// Ensure InstrumentedAuthenticator implements sitefinity.Authenticator.
var _ sitefinity.Authenticator = (*InstrumentedAuthenticator)(nil)

// InstrumentedAuthenticator wraps an Authenticator with request metrics.
type InstrumentedAuthenticator struct {
	next    sitefinity.Authenticator
	metrics *Metrics
}

// NewInstrumentedAuthenticator creates a new InstrumentedAuthenticator.
func NewInstrumentedAuthenticator(next sitefinity.Authenticator, metrics *Metrics) *InstrumentedAuthenticator {
	return &InstrumentedAuthenticator{next: next, metrics: metrics}
}

func (a *InstrumentedAuthenticator) Authenticate(ctx context.Context, tokenURL string, creds *sitefinity.Credentials) (sess *sitefinity.Session, err error) {
	defer func(begin time.Time) { a.metrics.ObserveRequest(KindAuthenticate, time.Since(begin), err) }(time.Now())
	return a.next.Authenticate(ctx, tokenURL, creds)
}

// Ensure InstrumentedHost implements sitefinity.Host.
var _ sitefinity.Host = (*InstrumentedHost)(nil)

// InstrumentedHost counts nodes registered with the wrapped host.
type InstrumentedHost struct {
	next    sitefinity.Host
	metrics *Metrics
}

// NewInstrumentedHost creates a new InstrumentedHost.
func NewInstrumentedHost(next sitefinity.Host, metrics *Metrics) *InstrumentedHost {
	return &InstrumentedHost{next: next, metrics: metrics}
}

func (h *InstrumentedHost) CreateNodeID(key string) string {
	return h.next.CreateNodeID(key)
}

func (h *InstrumentedHost) CreateNode(ctx context.Context, node *sitefinity.Node) error {
	if err := h.next.CreateNode(ctx, node); err != nil {
		return err
	}
	h.metrics.IncNodes(node.Internal.Type)
	return nil
}
