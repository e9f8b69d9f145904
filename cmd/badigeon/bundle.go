// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"regexp"

	"github.com/invowk/badigeon/pkg/bundle"
	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/jlink"
	"github.com/invowk/badigeon/pkg/platform"
	"github.com/invowk/badigeon/pkg/types"

	"github.com/spf13/cobra"
)

type bundleFlags struct {
	out               string
	main              string
	libsPath          string
	allowUnstableDeps bool
	excludeLibs       []string
	noScript          bool
	scriptPlatform    string
	jlink             bool
}

func newBundleCommand(app *App) *cobra.Command {
	var flags bundleFlags

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Lay out a standalone bundle directory",
		Long: `Lay out a standalone bundle directory.

Dependency archives are copied to the libs folder, dependency and project
directories are merged into the bundle root. Two inputs writing the same
file abort the copy. Native libraries are extracted from the dependencies
listed in bundle.native_prefixes, and a launch script is written to
bin/run.sh (or bin\run.bat).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd.Context(), app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "bundle directory (default target/<artifact>-<version>)")
	cmd.Flags().StringVar(&flags.main, "main", "", "main namespace started by the launch script")
	cmd.Flags().StringVar(&flags.libsPath, "libs-path", "", "libs folder, relative to the bundle root")
	cmd.Flags().BoolVar(&flags.allowUnstableDeps, "allow-unstable-deps", false, "bundle snapshot, pre-release and local dependencies")
	cmd.Flags().StringArrayVar(&flags.excludeLibs, "exclude-lib", nil, "library left out of the bundle (repeatable)")
	cmd.Flags().BoolVar(&flags.noScript, "no-script", false, "do not write a launch script")
	cmd.Flags().StringVar(&flags.scriptPlatform, "script-platform", "", "launch script flavor: posix or windows (default: host)")
	cmd.Flags().BoolVar(&flags.jlink, "jlink", false, "build a trimmed runtime with jlink")

	return cmd
}

func runBundle(ctx context.Context, app *App, flags bundleFlags) error {
	p, err := app.loadProjectOrFail(ctx)
	if err != nil {
		return err
	}
	cfg := p.cfg

	lib, err := p.lib()
	if err != nil {
		return app.fail("bundle", p.dir, err)
	}

	outRoot := p.resolve(firstNonEmpty(flags.out, cfg.Bundle.OutPath, fspath.DefaultBundlePath(lib, cfg.Version)))

	opts, err := bundleOptions(p, flags, outRoot)
	if err != nil {
		return app.fail("bundle", outRoot, err)
	}

	res, err := bundle.Bundle(ctx, opts)
	if err != nil {
		return app.fail("bundle", outRoot, err)
	}

	fmt.Fprintf(app.stdout, "%s %s (%d paths)\n", SuccessStyle.Render("Bundled"), PathStyle.Render(res.OutputRoot), len(res.Copied))
	if res.Runtime != nil {
		fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Runtime"), PathStyle.Render(res.Runtime.RuntimePath))
	}
	if res.ScriptPath != "" {
		fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Script"), PathStyle.Render(res.ScriptPath))
	}
	if app.flags.verbose {
		for _, rel := range res.Copied {
			fmt.Fprintln(app.stdout, VerboseStyle.Render("  "+rel))
		}
	}
	return nil
}

// bundleOptions merges flags over the configuration. Every check that can
// fail without touching the filesystem runs here.
func bundleOptions(p *project, flags bundleFlags, outRoot string) (bundle.Options, error) {
	cfg := p.cfg

	excluded := append([]types.LibraryName(nil), cfg.Bundle.ExcludedLibs...)
	for _, l := range flags.excludeLibs {
		lib := types.LibraryName(l)
		if err := lib.Validate(); err != nil {
			return bundle.Options{}, err
		}
		excluded = append(excluded, lib)
	}

	patterns, err := compileNativePatterns(cfg.Bundle.NativeExtensions)
	if err != nil {
		return bundle.Options{}, err
	}

	opts := bundle.Options{
		CopyOptions: bundle.CopyOptions{
			Layout: bundle.Layout{
				OutputRoot:  outRoot,
				LibsPath:    firstNonEmpty(flags.libsPath, cfg.Bundle.LibsPath),
				NativesPath: cfg.Bundle.NativesPath,
			},
			Dependencies:  p.deps,
			ExcludedLibs:  excluded,
			ProjectRoot:   p.dir,
			ProjectPaths:  cfg.Paths,
			AllowUnstable: flags.allowUnstableDeps || cfg.Bundle.AllowUnstableDeps,
		},
		NativePrefixes: cfg.Bundle.NativePrefixMap(),
		NativePatterns: patterns,
	}

	if !flags.noScript {
		mainNS := firstNonEmpty(flags.main, cfg.Main)
		if mainNS == "" {
			return bundle.Options{}, bundle.ErrNoEntryPoint
		}
		script, err := platform.ParseScript(firstNonEmpty(flags.scriptPlatform, string(cfg.Bundle.Script.Platform)))
		if err != nil {
			return bundle.Options{}, err
		}
		opts.EntryPoint = mainNS
		opts.Script = bundle.ScriptOptions{
			Script:  script,
			JVMOpts: cfg.Bundle.Script.JVMOpts,
			Args:    cfg.Bundle.Script.Args,
		}
	}

	if flags.jlink || cfg.Bundle.Jlink.Enabled {
		opts.Jlink = &jlink.Options{
			JavaHome: p.resolve(cfg.Bundle.Jlink.JavaHome),
			Modules:  cfg.Bundle.Jlink.Modules,
		}
	}

	return opts, nil
}

func compileNativePatterns(exprs []string) ([]*regexp.Regexp, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", errInvalidNativePattern, expr, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}
