package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/dashgen/internal/event"
	"github.com/matthewbaird/dashgen/internal/executor"
	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/render"
)

// generate prints or executes plan according to opts and records the run
// when a manifest database is configured.
func generate(cmd *cobra.Command, opts *genOptions, plan *planner.Plan, kind manifest.Kind) error {
	out := cmd.OutOrStdout()
	printWarnings(cmd, plan)

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"project":  plan.Project,
			"total":    len(plan.Actions),
			"actions":  plan.Summaries(),
			"warnings": plan.Warnings,
		})
	}
	if opts.dryRun {
		for _, a := range plan.Actions {
			fmt.Fprintf(out, "  + %s (%s)\n", a.TargetPath, a.TemplateID)
		}
		fmt.Fprintf(out, "%d files planned for %s (dry run)\n", len(plan.Actions), plan.Project)
		return nil
	}

	renderer := render.NewDir(os.DirFS(opts.templates))
	ids := make([]string, len(plan.Actions))
	for i, a := range plan.Actions {
		ids[i] = a.TemplateID
	}
	if missing := renderer.Missing(ids); len(missing) > 0 {
		return fmt.Errorf("%d templates missing from %s (first: %s)", len(missing), opts.templates, missing[0])
	}

	ctx := cmd.Context()
	res, err := executor.New(renderer, opts.outDir, opts.overwrite).Execute(ctx, plan)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d files written to %s in %s\n", len(res.Written), opts.outDir, res.Elapsed.Round(time.Millisecond))

	if opts.db == "" {
		return nil
	}
	return record(ctx, opts.db, plan, kind)
}

func record(ctx context.Context, dsn string, plan *planner.Plan, kind manifest.Kind) error {
	store, err := manifest.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	run := manifest.NewRun(plan, kind)
	evt := event.NewPlanRecorded(run, plan.Warnings)
	if kind == manifest.KindEntity {
		evt = event.NewEntityPlanned(run, plan.Warnings)
	}
	return event.NewManifestRecorder(store).Record(ctx, evt)
}

// recordedPaths returns the paths recorded for project, or nil without a
// manifest database.
func recordedPaths(ctx context.Context, dsn, project string) ([]string, error) {
	if dsn == "" {
		return nil, nil
	}
	store, err := manifest.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Paths(ctx, project)
}

func printWarnings(cmd *cobra.Command, plan *planner.Plan) {
	for _, w := range plan.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
