// Command velac is a small fixture driver: it builds one of the library's
// example programs, optionally converts it to SSA and/or runs the
// optimiser over it, and prints the serialised result. There is no
// front-end and no parser here — serialisation is one-way, and the IR is
// built directly by the fixture package.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"velac/internal/fixture"
	"velac/internal/telemetry"
	"velac/src/ir"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		toSSA    bool
		optimize bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "velac <fixture>",
		Short: "Build and serialise one of velac's example IR programs",
		Long: "velac builds one of a fixed set of example programs, optionally\n" +
			"runs SSA conversion and/or the optimiser over it, and prints the\n" +
			"result in the library's diagnostic textual format.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], toSSA, optimize, verbose)
		},
	}

	cmd.AddCommand(newListCmd())

	flags := cmd.Flags()
	flags.BoolVar(&toSSA, "ssa", false, "convert the fixture to SSA form before printing")
	flags.BoolVar(&optimize, "optimize", false, "run the fixed-point optimiser before printing (implies --ssa is applied first if set)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log per-pass optimiser activity")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range fixture.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", b.Name, b.Description)
			}
			return nil
		},
	}
}

func run(cmd *cobra.Command, name string, toSSA, optimize, verbose bool) error {
	var build func() *ir.Program
	for _, b := range fixture.All() {
		if b.Name == name {
			build = b.Build
			break
		}
	}
	if build == nil {
		return errors.Errorf("unknown fixture %q (see %q for the list)", name, "velac list")
	}

	log := telemetry.New(verbose)
	defer log.Sync() //nolint:errcheck

	p := build()
	for _, f := range p.Functions() {
		if toSSA || optimize {
			ir.ToSSA(f)
		}
		if optimize {
			ir.OptimizeVerbose(f, log)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.String())
	return nil
}
