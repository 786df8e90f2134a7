package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitefinity"
	"github.com/fwojciec/sitefinity/fs"
	"github.com/fwojciec/sitefinity/goquery"
	"github.com/fwojciec/sitefinity/htmltomarkdown"
	sfhttp "github.com/fwojciec/sitefinity/http"
	"github.com/fwojciec/sitefinity/lipgloss"
	sfnats "github.com/fwojciec/sitefinity/nats"
	"github.com/fwojciec/sitefinity/oauth2"
	sfprom "github.com/fwojciec/sitefinity/prometheus"
	sfslog "github.com/fwojciec/sitefinity/slog"
	"github.com/fwojciec/sitefinity/source"
	"github.com/fwojciec/sitefinity/sqlite"
	"github.com/fwojciec/sitefinity/uuid"
	"github.com/fwojciec/sitefinity/xxhash"
	"github.com/fwojciec/sitefinity/yaml"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx := context.Background()

	if _, err := yaml.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the sqlite sink and the nodes command.
	DB *sqlite.DB

	// Publisher backing the nats sink.
	Publisher *sfnats.Publisher

	// Registry and Metrics are set when a metrics file is requested.
	Registry *prometheus.Registry
	Metrics  *sfprom.Metrics

	// Logger is set in verbose mode.
	Logger *slog.Logger
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close flushes and closes whatever the last run opened.
func (m *Main) Close(ctx context.Context) error {
	var errs []error
	if m.Publisher != nil {
		errs = append(errs, m.Publisher.Close(ctx))
		m.Publisher = nil
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitefinity"),
		kong.Description("Source content items from a Sitefinity CMS site as content nodes."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitefinity --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, m.Close(ctx))
	}()

	// Wire command-specific dependencies based on command
	switch kongCtx.Command() {
	case "source":
		if err := m.wireSource(deps, &cli.Source); err != nil {
			return err
		}
	case "plan":
		if err := m.wireSite(deps, &cli.Plan.SiteFlags); err != nil {
			return err
		}
	case "nodes":
		if err := m.openDB(cli.Nodes.DB, stderr); err != nil {
			return err
		}
		deps.Nodes = sqlite.NewNodeService(m.DB)
	}

	runErr := kongCtx.Run(deps)

	if m.Registry != nil {
		if err := sfprom.WriteTextfile(cli.Source.MetricsFile, m.Registry); err != nil {
			return errors.Join(runErr, err)
		}
	}

	return runErr
}

// wireSite loads the plugin options and builds a Source without a host.
func (m *Main) wireSite(deps *Dependencies, flags *SiteFlags) error {
	opts, err := yaml.Load(flags.Config)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Set SITEFINITY_CONFIG or pass --config to use a different options file")
		return err
	}
	deps.Options = opts

	var api sitefinity.ContentAPI = sfhttp.NewContentAPI(sfhttp.WithTimeout(flags.Timeout))
	var auth sitefinity.Authenticator = oauth2.NewAuthenticator(&http.Client{Timeout: flags.Timeout})

	if flags.Verbose {
		m.Logger = slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		api = sfslog.NewLoggingContentAPI(api, m.Logger)
		auth = sfslog.NewLoggingAuthenticator(auth, m.Logger)
	}
	if m.Metrics != nil {
		api = sfprom.NewInstrumentedContentAPI(api, m.Metrics)
		auth = sfprom.NewInstrumentedAuthenticator(auth, m.Metrics)
	}

	src := &source.Source{
		API:           api,
		Authenticator: auth,
		Console:       lipgloss.NewConsole(deps.Stderr),
		Markdown:      htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(siteURL(opts))),
		PlainText:     goquery.NewTextConverter(),
		Concurrency:   flags.Concurrency,
	}
	if flags.RPS > 0 {
		src.Limiter = source.NewHostLimiter(flags.RPS, 1)
	}
	if flags.Verbose {
		stderr := deps.Stderr
		src.Progress = func(event source.ProgressEvent) {
			fmt.Fprintln(stderr, source.FormatProgress(event))
		}
	}

	deps.Source = src
	return nil
}

// wireSource builds the full pipeline for the source command: the site
// services, the node sink and the host registering nodes with it.
func (m *Main) wireSource(deps *Dependencies, c *SourceCmd) error {
	if c.MetricsFile != "" {
		m.Registry = prometheus.NewRegistry()
		m.Metrics = sfprom.NewMetrics(m.Registry)
	}

	if err := m.wireSite(deps, &c.SiteFlags); err != nil {
		return err
	}

	writer, err := m.openSink(deps, c)
	if err != nil {
		return err
	}

	var host sitefinity.Host = uuid.NewHost(writer, c.Plugin)
	if m.Logger != nil {
		host = sfslog.NewLoggingHost(host, m.Logger)
	}
	if m.Metrics != nil {
		host = sfprom.NewInstrumentedHost(host, m.Metrics)
	}
	deps.Source.Host = host

	if c.Digest == "xxhash" {
		deps.Source.Digest = xxhash.Digest
	}

	return nil
}

func (m *Main) openSink(deps *Dependencies, c *SourceCmd) (sitefinity.NodeWriter, error) {
	switch c.Out {
	case "dir":
		return fs.NewWriter(c.Dir), nil
	case "sqlite":
		if err := m.openDB(c.DB, deps.Stderr); err != nil {
			return nil, err
		}
		return sqlite.NewNodeService(m.DB), nil
	case "nats":
		p, err := sfnats.Connect(c.NatsURL, c.NatsSubject)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Set NATS_URL or pass --nats-url to use a different server")
			return nil, err
		}
		m.Publisher = p
		return p, nil
	}
	return fs.NewStreamWriter(deps.Stdout), nil
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set SITEFINITY_DB or pass --db to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.DB = db
	return nil
}

// siteURL returns the url option for resolving relative links in converted
// markdown. Validation happens later, in the run itself.
func siteURL(opts map[string]any) string {
	s, _ := opts[sitefinity.OptionURL].(string)
	return s
}
