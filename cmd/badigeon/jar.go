// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/jar"
	"github.com/invowk/badigeon/pkg/manifest"
	"github.com/invowk/badigeon/pkg/policy"

	"github.com/spf13/cobra"
)

type jarFlags struct {
	out                  string
	main                 string
	allowAllDependencies bool
	exclude              []string
}

func newJarCommand(app *App) *cobra.Command {
	var flags jarFlags

	cmd := &cobra.Command{
		Use:   "jar",
		Short: "Package the project into a jar archive",
		Long: `Package the project into a jar archive.

The archive holds the manifest, the contents of the configured project
paths (minus dot-files and editor backups) at the archive root, the
contents of every dependency, the project metadata under META-INF/ and a
generated pom.properties.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJar(cmd.Context(), app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "archive path (default target/<artifact>-<version>.jar)")
	cmd.Flags().StringVar(&flags.main, "main", "", "main namespace written as Main-Class")
	cmd.Flags().BoolVar(&flags.allowAllDependencies, "allow-all-dependencies", false, "package dependencies without a released version")
	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "extra exclusion glob, relative to each project or dependency path (repeatable)")

	return cmd
}

func runJar(ctx context.Context, app *App, flags jarFlags) error {
	p, err := app.loadProjectOrFail(ctx)
	if err != nil {
		return err
	}
	cfg := p.cfg

	lib, err := p.lib()
	if err != nil {
		return app.fail("write jar", p.dir, err)
	}

	exclusion, err := policy.ExcludeGlobs(policy.DefaultExclusion(), append(cfg.Jar.Exclude, flags.exclude...)...)
	if err != nil {
		return app.fail("write jar", p.dir, err)
	}

	outPath := firstNonEmpty(flags.out, cfg.Jar.OutPath)
	mainNS := firstNonEmpty(flags.main, cfg.Main)

	var manifestOpts []manifest.Option
	if Version != "dev" {
		manifestOpts = append(manifestOpts, manifest.WithCreatedBy(manifest.DefaultCreatedBy+" "+Version))
	}
	if cfg.Jar.BuildJdk != "" {
		manifestOpts = append(manifestOpts, manifest.WithBuildJdk(cfg.Jar.BuildJdk))
	}

	res, err := jar.Write(ctx, jar.Options{
		RootPath:             p.dir,
		Paths:                cfg.Paths,
		Lib:                  lib,
		Version:              cfg.Version,
		OutPath:              outPath,
		Dependencies:         p.deps,
		Exclusion:            exclusion,
		MainEntryPoint:       mainNS,
		ManifestFields:       manifest.FieldsFromMap(cfg.Jar.Manifest),
		ManifestOptions:      manifestOpts,
		AllowAllDependencies: flags.allowAllDependencies || cfg.Jar.AllowAllDependencies,
	})
	if err != nil {
		resource := outPath
		if resource == "" {
			resource = fspath.DefaultJarPath(lib, cfg.Version)
		}
		return app.fail("write jar", resource, err)
	}

	for _, f := range res.Omitted {
		fmt.Fprintf(app.stderr, "%s %s left out of dependency metadata: %s\n", WarningStyle.Render("warning:"), f.Lib, f.Reason)
	}
	fmt.Fprintf(app.stdout, "%s %s (%d entries)\n", SuccessStyle.Render("Wrote"), PathStyle.Render(res.Path), len(res.Entries))
	if app.flags.verbose {
		fmt.Fprintf(app.stdout, "%s %s\n", VerboseStyle.Render("blake3:"), res.Digest)
	}
	return nil
}

// loadProjectOrFail loads the project and classifies load failures.
func (a *App) loadProjectOrFail(ctx context.Context) (*project, error) {
	p, err := a.loadProject(ctx)
	if err != nil {
		return nil, a.fail("load project", a.flags.projectDir, err)
	}
	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
