package main

import (
	"github.com/fwojciec/sitefinity/source"
)

// Run executes the source command. The outcome line is written by the
// source's console.
func (c *SourceCmd) Run(deps *Dependencies) error {
	res := deps.Source.SourceNodes(deps.Ctx, deps.Options, nil)
	if res.State == source.StateFailed {
		return res.Err
	}
	return nil
}
