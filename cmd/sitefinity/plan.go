package main

import (
	"fmt"

	"github.com/fwojciec/sitefinity"
	"github.com/fwojciec/sitefinity/source"
)

// Run executes the plan command.
func (c *PlanCmd) Run(deps *Dependencies) error {
	cfg, err := sitefinity.ParseConfig(deps.Options)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitefinity.ErrorMessage(err))
		return err
	}

	res, err := deps.Source.Plan(deps.Ctx, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", source.FailureMessage(err))
		return err
	}

	if len(res.Types) == 0 {
		fmt.Fprintln(deps.Stdout, "No content types found.")
		return nil
	}

	for i, task := range res.Counts {
		fmt.Fprintf(deps.Stdout, "%s: %d items\n", source.FormatTask(task), res.Totals[i])
	}
	for _, task := range res.Pages {
		fmt.Fprintf(deps.Stdout, "  %s  %s\n", source.FormatTask(task), task.URL)
	}
	fmt.Fprintf(deps.Stdout, "%d content types, %d pages\n", len(res.Types), len(res.Pages))

	return nil
}
