// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/badigeon/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the project configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Long: `Print the effective configuration as CUE.

The output merges the defaults, the project file and BADIGEON_ environment
overrides. It can be saved as a starting badigeon.cue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), app)
		},
	})

	return cmd
}

func runConfigShow(ctx context.Context, app *App) error {
	opts := app.loadOptions()
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return app.fail("load configuration", string(opts.ConfigFilePath), err)
	}

	source, _ := opts.SourcePath()
	if source == "" {
		source = "(using defaults)"
	}
	fmt.Fprintln(app.stderr, VerboseStyle.Render("// source: "+source))
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}
