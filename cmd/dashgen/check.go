package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/dashgen/internal/config"
	"github.com/matthewbaird/dashgen/internal/planner"
)

func newCheckCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a project configuration and report warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			plan, err := planner.New().Plan(cfg)
			if err != nil {
				return err
			}
			printWarnings(cmd, plan)
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s plans %d files (%d entities, %d warnings)\n",
				plan.Project, len(plan.Actions), len(cfg.Modules.Crud), len(plan.Warnings))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "project configuration")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
