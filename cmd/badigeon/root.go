// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/badigeon/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "badigeon",
		Short: "Package Clojure projects as jars and standalone bundles",
		Long: TitleStyle.Render("badigeon") + SubtitleStyle.Render(" - Package Clojure projects as jars and standalone bundles") + `

badigeon assembles a project's compiled outputs and its resolved
dependencies into a jar archive, or into an exploded bundle directory
with a launch script, native libraries and an optional trimmed runtime.

Projects are described in a 'badigeon.cue' file. The dependency set is
read from that file or from a resolved dependency file (--deps-file).

` + SubtitleStyle.Render("Examples:") + `
  badigeon jar                       Write target/<artifact>-<version>.jar
  badigeon bundle --jlink            Bundle with a trimmed runtime
  badigeon inspect target/app.jar    Show an archive's manifest and entries
  badigeon config show               Show the effective configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			installLogger(app.stderr, app.flags.verbose)
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is <project-dir>/badigeon.cue)")
	pf.StringVarP(&app.flags.projectDir, "project-dir", "C", "", "project directory (default is the working directory)")
	pf.StringVar(&app.flags.depsFile, "deps-file", "", "resolved dependency file (.toml, .yaml, .json or .cue)")

	rootCmd.AddCommand(newJarCommand(app))
	rootCmd.AddCommand(newBundleCommand(app))
	rootCmd.AddCommand(newExtractNativeCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// installLogger routes library slog output through a charmbracelet logger.
func installLogger(w io.Writer, verbose bool) {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "badigeon",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}
