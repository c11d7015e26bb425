package main

import (
	"github.com/spf13/cobra"

	"github.com/matthewbaird/dashgen/internal/config"
	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/planner"
)

// genOptions are the flags shared by create and entity.
type genOptions struct {
	config    string
	outDir    string
	templates string
	dryRun    bool
	json      bool
	overwrite bool
	db        string
}

func (o *genOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.config, "config", "c", "", "project configuration (.cue, .json, .yaml or a CUE package directory)")
	f.StringVarP(&o.outDir, "out", "o", ".", "output directory")
	f.StringVarP(&o.templates, "templates", "t", "templates", "template directory holding <templateId>.tmpl files")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the plan without writing files")
	f.BoolVar(&o.json, "json", false, "print the plan as JSON without writing files")
	f.BoolVar(&o.overwrite, "overwrite", false, "replace files that already exist")
	f.StringVar(&o.db, "db", "", "SQLite manifest recording each run (e.g. dashgen.db)")
	_ = cmd.MarkFlagRequired("config")
}

func newCreateCmd() *cobra.Command {
	var opts genOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a new project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.config)
			if err != nil {
				return err
			}
			plan, err := planner.New().Plan(cfg)
			if err != nil {
				return err
			}
			return generate(cmd, &opts, plan, manifest.KindCreate)
		},
	}
	opts.register(cmd)
	return cmd
}
