package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/dashgen/internal/config"
	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/typemap"
	"github.com/matthewbaird/dashgen/internal/types"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// skipDirs are never scanned for existing files.
var skipDirs = map[string]bool{".git": true, "node_modules": true, "dist": true}

func newEntityCmd() *cobra.Command {
	var (
		opts   genOptions
		name   string
		plural string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Add one entity to an existing project",
		Long: `Plans the files of a single entity into an existing project directory
(-o). Without --field the entity is taken from the project configuration.
The plan must not touch any file already in the project or recorded in the
manifest (--db), unless --overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.config)
			if err != nil {
				return err
			}
			entity, err := entityFromFlags(cfg, name, plural, fields)
			if err != nil {
				return err
			}

			var existing []string
			if !opts.overwrite {
				existing, err = existingPaths(cmd.Context(), &opts, cfg.Name)
				if err != nil {
					return err
				}
			}
			plan, err := planner.New().PlanEntity(cfg, entity, existing)
			if err != nil {
				return err
			}
			return generate(cmd, &opts, plan, manifest.KindEntity)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "entity name in PascalCase (e.g. Product)")
	cmd.Flags().StringVar(&plural, "plural", "", "plural name (default: name + s)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "field as name:type[:required], repeatable")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// entityFromFlags builds the entity to plan. With no --field flags the
// configured entity of that name is used.
func entityFromFlags(cfg types.ProjectConfig, name, plural string, specs []string) (types.EntityConfig, error) {
	if len(specs) == 0 {
		if e := cfg.Entity(name); e != nil {
			out := *e
			if plural != "" {
				out.PluralName = plural
			}
			return out, nil
		}
	}
	e := types.EntityConfig{Name: name, PluralName: plural, Fields: []types.FieldConfig{}}
	for _, s := range specs {
		f, err := parseFieldFlag(s)
		if err != nil {
			return e, err
		}
		e.Fields = append(e.Fields, f)
	}
	return e, nil
}

// parseFieldFlag parses "name:type[:required]". The field starts with the
// default constraints of its type.
func parseFieldFlag(s string) (types.FieldConfig, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return types.FieldConfig{}, fmt.Errorf("invalid --field %q: want name:type[:required]", s)
	}
	ft, ok := types.ParseFieldType(parts[1])
	if !ok {
		names := make([]string, 0, len(types.FieldTypes()))
		for _, t := range types.FieldTypes() {
			names = append(names, t.String())
		}
		msg := fmt.Sprintf("invalid --field %q: unknown type %q", s, parts[1])
		if guess := validate.Suggest(parts[1], names, 3); guess != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", guess)
		}
		return types.FieldConfig{}, errors.New(msg)
	}
	required := false
	if len(parts) == 3 {
		if parts[2] != "required" {
			return types.FieldConfig{}, fmt.Errorf("invalid --field %q: third part must be \"required\"", s)
		}
		required = true
	}
	f := types.FieldConfig{
		Name:         parts[0],
		Type:         ft,
		Required:     required,
		ShowInList:   true,
		ShowInDetail: true,
		ShowInForm:   true,
	}
	typemap.ApplyDefaults(&f)
	return f, nil
}

// existingPaths merges the files already under the output directory with
// the paths recorded in the manifest.
func existingPaths(ctx context.Context, opts *genOptions, project string) ([]string, error) {
	paths, err := recordedPaths(ctx, opts.db, project)
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(opts.outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == opts.outDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && p != opts.outDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(opts.outDir, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", opts.outDir, err)
	}
	return paths, nil
}
