// Package source runs the Sitefinity sourcing pipeline: validate,
// authenticate, discover content types, count, paginate, fetch pages and
// register one node per content item with the host.
package source

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/sitefinity"
	"golang.org/x/sync/errgroup"
)

// Source orchestrates a sourcing run.
type Source struct {
	API           sitefinity.ContentAPI
	Authenticator sitefinity.Authenticator
	Host          sitefinity.Host
	Console       sitefinity.Console

	// Digest hashes node content. Nil means sitefinity.DigestMD5.
	Digest sitefinity.DigestFunc

	// Markdown and PlainText convert the fields named by the markdown and
	// plaintext options.
	Markdown  sitefinity.Converter
	PlainText sitefinity.Converter

	// Limiter paces requests per host. Nil disables rate limiting.
	Limiter sitefinity.RequestLimiter

	// Concurrency caps in-flight requests per batch. Zero means unbounded.
	Concurrency int

	// Progress receives progress events from SourceNodes. Optional.
	Progress ProgressFunc
}

// State is the terminal state of a run.
type State int

const (
	StateDone State = iota
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Result holds the outcome of a run. Fields are filled as stages complete,
// so a failed run still reports how far it got.
type Result struct {
	State State

	// Types is the discovered working set, after the types filter.
	Types []*sitefinity.ContentType

	// Counts holds the count tasks; Totals[i] is the item count for Counts[i].
	Counts []*sitefinity.FetchTask
	Totals []int

	Pages []*sitefinity.FetchTask

	// Nodes is the number of nodes registered with the host.
	Nodes int

	Err error
}

// Stage identifies a pipeline stage in progress events.
type Stage int

const (
	StageAuthenticate Stage = iota
	StageDiscover
	StageCount
	StageFetch
	StageRegister
)

func (s Stage) String() string {
	switch s {
	case StageAuthenticate:
		return "authenticate"
	case StageDiscover:
		return "discover"
	case StageCount:
		return "count"
	case StageFetch:
		return "fetch"
	case StageRegister:
		return "register"
	}
	return "unknown"
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Stage     Stage
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting progress. Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// SourceNodes parses raw plugin options and runs the pipeline. It reports
// exactly one error or success line to the console and never returns an
// error; the outcome is carried by the returned Result. done, if not nil,
// is called once when the run ends, whatever its state.
func (s *Source) SourceNodes(ctx context.Context, options map[string]any, done func()) (res *Result) {
	if done != nil {
		defer done()
	}
	defer func() {
		if r := recover(); r != nil {
			err := sitefinity.Errorf(sitefinity.EINTERNAL, "panic: %v", r)
			s.Console.Error(FailureMessage(err))
			res = &Result{State: StateFailed, Err: err}
		}
	}()

	cfg, err := sitefinity.ParseConfig(options)
	if err != nil {
		s.Console.Error(FailureMessage(err))
		return &Result{State: StateFailed, Err: err}
	}

	res, err = s.Run(ctx, cfg, s.Progress)
	if err != nil {
		s.Console.Error(FailureMessage(err))
		return res
	}

	s.Console.Success(fmt.Sprintf("created %d sitefinity content nodes", res.Nodes))
	return res
}

// FailureMessage formats a run failure for the console. Configuration
// errors are reported verbatim.
func FailureMessage(err error) string {
	if sitefinity.ErrorCode(err) == sitefinity.EINVALID {
		return sitefinity.ErrorMessage(err)
	}
	return "cannot get content from sitefinity: " + sitefinity.ErrorMessage(err)
}

// Run executes the full pipeline for a validated config. On failure the
// returned Result is in StateFailed and carries the error; nodes
// registered before the failure stay registered.
func (s *Source) Run(ctx context.Context, cfg *sitefinity.Config, progress ProgressFunc) (*Result, error) {
	p := newReporter(progress)

	res, sess, err := s.plan(ctx, cfg, p)
	if err != nil {
		return fail(res, err)
	}

	pages, err := batch(ctx, s, StageFetch, res.Pages, p, func(ctx context.Context, task *sitefinity.FetchTask) ([]*sitefinity.Item, error) {
		return s.API.Page(ctx, sess, task)
	})
	if err != nil {
		return fail(res, err)
	}

	var items []*sitefinity.Item
	for _, page := range pages {
		items = append(items, page...)
	}

	p.report(ProgressEvent{Type: ProgressStarted, Stage: StageRegister, Total: len(items)})
	for _, item := range items {
		node, err := sitefinity.NewNode(item, s.Host.CreateNodeID, s.Digest)
		if err != nil {
			return fail(res, err)
		}
		if err := s.convertFields(cfg, node); err != nil {
			return fail(res, err)
		}
		if err := s.Host.CreateNode(ctx, node); err != nil {
			return fail(res, err)
		}
		res.Nodes++
		p.report(ProgressEvent{Type: ProgressCompleted, Stage: StageRegister, Completed: res.Nodes, Total: len(items)})
	}

	p.report(ProgressEvent{Type: ProgressFinished, Stage: StageRegister, Completed: res.Nodes, Total: len(items)})
	res.State = StateDone
	return res, nil
}

// Plan runs every stage up to pagination without fetching pages.
func (s *Source) Plan(ctx context.Context, cfg *sitefinity.Config) (*Result, error) {
	res, _, err := s.plan(ctx, cfg, newReporter(nil))
	if err != nil {
		return fail(res, err)
	}
	res.State = StateDone
	return res, nil
}

func (s *Source) plan(ctx context.Context, cfg *sitefinity.Config, p *reporter) (*Result, *sitefinity.Session, error) {
	res := &Result{}

	if err := cfg.Validate(); err != nil {
		return res, nil, err
	}
	if len(cfg.Markdown) > 0 && s.Markdown == nil {
		return res, nil, sitefinity.Errorf(sitefinity.EINVALID, "invalid %s option: no markdown converter configured", sitefinity.OptionMarkdown)
	}
	if len(cfg.PlainText) > 0 && s.PlainText == nil {
		return res, nil, sitefinity.Errorf(sitefinity.EINVALID, "invalid %s option: no plain text converter configured", sitefinity.OptionPlainText)
	}

	var sess *sitefinity.Session
	if cfg.Credentials != nil {
		p.report(ProgressEvent{Type: ProgressStarted, Stage: StageAuthenticate, Total: 1, URL: cfg.TokenURL()})
		if err := s.wait(ctx, cfg.TokenURL()); err != nil {
			return res, nil, err
		}
		var err error
		sess, err = s.Authenticator.Authenticate(ctx, cfg.TokenURL(), cfg.Credentials)
		if err != nil {
			return res, nil, err
		}
		p.report(ProgressEvent{Type: ProgressCompleted, Stage: StageAuthenticate, Completed: 1, Total: 1, URL: cfg.TokenURL()})
	}

	p.report(ProgressEvent{Type: ProgressStarted, Stage: StageDiscover, Total: 1, URL: cfg.ServiceURL()})
	if err := s.wait(ctx, cfg.ServiceURL()); err != nil {
		return res, nil, err
	}
	types, err := s.API.ContentTypes(ctx, sess, cfg.ServiceURL())
	if err != nil {
		return res, nil, err
	}
	res.Types = sitefinity.FilterContentTypes(types, cfg.Types)
	p.report(ProgressEvent{Type: ProgressCompleted, Stage: StageDiscover, Completed: 1, Total: 1, URL: cfg.ServiceURL()})

	res.Counts = sitefinity.CountTasks(cfg, res.Types)
	res.Totals, err = batch(ctx, s, StageCount, res.Counts, p, func(ctx context.Context, task *sitefinity.FetchTask) (int, error) {
		return s.API.Count(ctx, sess, task)
	})
	if err != nil {
		return res, nil, err
	}

	res.Pages = sitefinity.PageTasks(cfg, res.Counts, res.Totals)
	return res, sess, nil
}

// convertFields adds converted siblings for the configured rich-text
// fields. Blank and non-string values are skipped.
func (s *Source) convertFields(cfg *sitefinity.Config, node *sitefinity.Node) error {
	if err := convertInto(node, cfg.Markdown, s.Markdown, sitefinity.MarkdownSuffix); err != nil {
		return err
	}
	return convertInto(node, cfg.PlainText, s.PlainText, sitefinity.PlainTextSuffix)
}

func convertInto(node *sitefinity.Node, fields []string, conv sitefinity.Converter, suffix string) error {
	for _, field := range fields {
		html, ok := node.Fields[field].(string)
		if !ok || html == "" {
			continue
		}
		out, err := conv.Convert(html)
		if err != nil {
			return sitefinity.Errorf(sitefinity.ETRANSFORM, "converting %s field of node %s: %s", field, node.ID, sitefinity.ErrorMessage(err))
		}
		node.Fields[field+suffix] = out
	}
	return nil
}

// wait blocks on the limiter for the host of rawURL.
func (s *Source) wait(ctx context.Context, rawURL string) error {
	if s.Limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return sitefinity.Errorf(sitefinity.ENETWORK, "invalid request url %q: %v", rawURL, err)
	}
	return s.Limiter.Wait(ctx, u.Host)
}

// batch runs fn for every task concurrently. Each result lands in its own
// slot so output order matches task order. The first error cancels the
// tasks still in flight and is returned.
func batch[T any](ctx context.Context, s *Source, stage Stage, tasks []*sitefinity.FetchTask, p *reporter, fn func(context.Context, *sitefinity.FetchTask) (T, error)) ([]T, error) {
	results := make([]T, len(tasks))
	total := len(tasks)
	p.report(ProgressEvent{Type: ProgressStarted, Stage: stage, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}

	var completed atomic.Int64
	for i, task := range tasks {
		g.Go(func() error {
			if err := s.wait(gctx, task.URL); err != nil {
				return err
			}
			v, err := fn(gctx, task)
			if err != nil {
				p.report(ProgressEvent{Type: ProgressFailed, Stage: stage, Completed: int(completed.Load()), Total: total, URL: task.URL, Error: err})
				return err
			}
			results[i] = v
			p.report(ProgressEvent{Type: ProgressCompleted, Stage: stage, Completed: int(completed.Add(1)), Total: total, URL: task.URL})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func fail(res *Result, err error) (*Result, error) {
	if res == nil {
		res = &Result{}
	}
	res.State = StateFailed
	res.Err = err
	return res, err
}

// reporter serializes progress callbacks from concurrent tasks.
type reporter struct {
	mu sync.Mutex
	fn ProgressFunc
}

func newReporter(fn ProgressFunc) *reporter {
	return &reporter{fn: fn}
}

func (r *reporter) report(event ProgressEvent) {
	if r.fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fn(event)
}
