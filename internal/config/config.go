// Package config loads project configurations. Every input format is unified
// with the embedded CUE schema, which closes the structs and supplies the
// field defaults, before it is decoded into types.ProjectConfig.
//
// CUE and JSON sources compile directly (JSON is valid CUE). YAML is decoded
// with yaml.v3 and encoded into a CUE value. A directory is loaded as a CUE
// package.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/matthewbaird/dashgen/internal/types"
)

//go:embed schema.cue
var schemaSource string

// ErrInvalid is wrapped by every error caused by the configuration content
// rather than by I/O.
var ErrInvalid = errors.New("invalid configuration")

// Format is a configuration source format.
type Format int

const (
	FormatCUE Format = iota
	FormatJSON
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCUE:
		return "cue"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf infers the format from a file extension. Unknown extensions are
// treated as CUE.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCUE
	}
}

// Schema returns the embedded CUE schema source.
func Schema() string {
	return schemaSource
}

// Load reads a project configuration from a file or a CUE package directory.
func Load(path string) (types.ProjectConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.ProjectConfig{}, fmt.Errorf("load config: %w", err)
	}
	if info.IsDir() {
		return loadPackage(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectConfig{}, fmt.Errorf("load config: %w", err)
	}
	return parse(data, FormatOf(path), filepath.Base(path))
}

// Parse decodes a project configuration from data.
func Parse(data []byte, format Format) (types.ProjectConfig, error) {
	return parse(data, format, "config."+format.String())
}

// ParseEntity decodes a single entity definition from data, applying the
// same defaults an entity gets inside a project.
func ParseEntity(data []byte, format Format) (types.EntityConfig, error) {
	var e types.EntityConfig
	name := "entity." + format.String()
	ctx := cuecontext.New()
	v, err := compile(ctx, data, format, name)
	if err != nil {
		return e, err
	}
	err = decodeAs(ctx, v, name, "#Entity", &e)
	return e, err
}

func parse(data []byte, format Format, name string) (types.ProjectConfig, error) {
	ctx := cuecontext.New()
	v, err := compile(ctx, data, format, name)
	if err != nil {
		return types.ProjectConfig{}, err
	}
	return decode(ctx, v, name)
}

func compile(ctx *cue.Context, data []byte, format Format, name string) (cue.Value, error) {
	var v cue.Value
	switch format {
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return v, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		v = ctx.Encode(doc)
	default:
		v = ctx.CompileBytes(data, cue.Filename(name))
	}
	if err := v.Err(); err != nil {
		return v, cueError(name, err)
	}
	return v, nil
}

func loadPackage(dir string) (types.ProjectConfig, error) {
	ctx := cuecontext.New()
	insts := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return types.ProjectConfig{}, fmt.Errorf("%w: %s: no CUE package", ErrInvalid, dir)
	}
	if insts[0].Err != nil {
		return types.ProjectConfig{}, cueError(dir, insts[0].Err)
	}
	v := ctx.BuildInstance(insts[0])
	if err := v.Err(); err != nil {
		return types.ProjectConfig{}, cueError(dir, err)
	}
	return decode(ctx, v, dir)
}

// decode unifies v with #Project, requires the result to be concrete and
// decodes its JSON export.
func decode(ctx *cue.Context, v cue.Value, name string) (types.ProjectConfig, error) {
	var cfg types.ProjectConfig
	err := decodeAs(ctx, v, name, "#Project", &cfg)
	return cfg, err
}

func decodeAs(ctx *cue.Context, v cue.Value, name, def string, out any) error {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath(def)).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueError(name, err)
	}

	data, err := unified.MarshalJSON()
	if err != nil {
		return cueError(name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
	}
	return nil
}

func cueError(name string, err error) error {
	details := strings.TrimSpace(cueerrors.Details(err, nil))
	return fmt.Errorf("%w: %s: %s", ErrInvalid, name, details)
}
