package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/sitefinity"
	"github.com/fwojciec/sitefinity/source"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Options are the raw plugin options read from the config file.
	Options map[string]any

	Source *source.Source
	Nodes  sitefinity.NodeService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Source SourceCmd `cmd:"" help:"Fetch all content and register one node per item"`
	Plan   PlanCmd   `cmd:"" help:"Show the requests a run would make without fetching pages"`
	Nodes  NodesCmd  `cmd:"" help:"List nodes stored in a SQLite database"`
}

// SiteFlags are shared by the commands that talk to a Sitefinity site.
type SiteFlags struct {
	Config      string        `short:"c" default:"sitefinity.yaml" env:"SITEFINITY_CONFIG" help:"Plugin options file (YAML, ${VAR} expanded)"`
	Timeout     time.Duration `default:"0s" help:"Per-request timeout (0 for none)"`
	Concurrency int           `default:"0" help:"Max in-flight requests per stage (0 for unbounded)"`
	RPS         float64       `name:"rps" default:"0" help:"Requests per second per host (0 for unlimited)"`
	Verbose     bool          `short:"v" help:"Log requests and progress to stderr"`
}

// SourceCmd is the "source" subcommand.
type SourceCmd struct {
	SiteFlags `embed:""`

	Out         string `short:"o" enum:"stdout,dir,sqlite,nats" default:"stdout" help:"Node sink: stdout, dir, sqlite or nats"`
	Dir         string `default:"nodes" help:"Output directory for --out=dir"`
	DB          string `name:"db" default:"sitefinity.db" env:"SITEFINITY_DB" help:"Database path for --out=sqlite"`
	NatsURL     string `name:"nats-url" default:"nats://127.0.0.1:4222" env:"NATS_URL" help:"NATS server for --out=nats"`
	NatsSubject string `name:"nats-subject" default:"sitefinity" help:"Subject prefix for --out=nats"`
	Plugin      string `default:"gatsby-source-sitefinity" help:"Plugin name node ids are namespaced by"`
	Digest      string `enum:"md5,xxhash" default:"md5" help:"Content digest: md5 or xxhash"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the run"`
}

// PlanCmd is the "plan" subcommand.
type PlanCmd struct {
	SiteFlags `embed:""`
}

// NodesCmd is the "nodes" subcommand.
type NodesCmd struct {
	DB     string `name:"db" default:"sitefinity.db" env:"SITEFINITY_DB" help:"Database path"`
	Type   string `short:"t" help:"Only nodes of this type, e.g. SitefinityNewsitems"`
	Locale string `short:"l" help:"Only nodes in this locale"`
	Limit  int    `short:"n" default:"0" help:"Maximum number of nodes (0 for all)"`
}
