package main

import (
	"fmt"

	"github.com/fwojciec/sitefinity"
)

// Run executes the nodes command.
func (c *NodesCmd) Run(deps *Dependencies) error {
	filter := sitefinity.NodeFilter{Limit: c.Limit}
	if c.Type != "" {
		filter.Type = &c.Type
	}
	if c.Locale != "" {
		filter.Locale = &c.Locale
	}

	nodes, err := deps.Nodes.FindNodes(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitefinity.ErrorMessage(err))
		return err
	}

	if len(nodes) == 0 {
		fmt.Fprintln(deps.Stdout, "No nodes found. Use 'sitefinity source --out sqlite' to store some.")
		return nil
	}

	for _, n := range nodes {
		locale := n.Node.Locale
		if locale == "" {
			locale = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", n.Node.ID, n.Node.Internal.Type, locale, n.Node.Internal.ContentDigest)
	}

	return nil
}
