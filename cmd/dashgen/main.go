// Command dashgen plans and generates admin dashboard projects from a
// project configuration.
//
// Usage:
//
//	dashgen create -c project.cue -t templates -o out
//	dashgen entity -c project.cue --name Tag --field label:string:required
//	dashgen check -c project.cue
//	dashgen types
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var exitFunc = os.Exit
var stdout io.Writer = os.Stdout
var stderr io.Writer = os.Stderr

func main() {
	log.SetFlags(0)
	log.SetPrefix("dashgen: ")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "dashgen: %v\n", err)
		exitFunc(1)
		return
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashgen",
		Short: "Plan and generate admin dashboard projects",
		Long: `dashgen expands a project configuration (CUE, JSON or YAML) into the
files of an admin dashboard: base scaffolding, auth, dashboard widgets and
CRUD pages, types, API contracts and mock data per entity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newCreateCmd(), newEntityCmd(), newCheckCmd(), newTypesCmd())
	return root
}
