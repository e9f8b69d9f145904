// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/invowk/badigeon/internal/config"
	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reads configuration through its provider.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		flags  globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	globalFlags struct {
		verbose    bool
		configPath string
		projectDir string
		depsFile   string
	}

	// project is the loaded state shared by the packaging commands.
	project struct {
		dir  string
		cfg  *config.Config
		deps []deps.ResolvedDependency
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(d Dependencies) *App {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Config == nil {
		d.Config = config.NewProvider()
	}
	return &App{
		Config: d.Config,
		stdout: d.Stdout,
		stderr: d.Stderr,
	}
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configPath),
		ProjectDir:     types.FilesystemPath(a.flags.projectDir),
	}
}

// loadProject loads the configuration and resolves the dependency set.
// A --deps-file flag wins over deps_file, which wins over inline
// dependencies.
func (a *App) loadProject(ctx context.Context) (*project, error) {
	dir := a.flags.projectDir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errLoadConfig, err)
	}
	if !a.flags.verbose && cfg.UI.Verbose {
		a.flags.verbose = true
		installLogger(a.stderr, true)
	}

	resolver := a.resolver(dir, cfg)
	resolved, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errResolveDeps, err)
	}

	return &project{dir: dir, cfg: cfg, deps: resolved}, nil
}

func (a *App) resolver(dir string, cfg *config.Config) deps.Resolver {
	depsFile := a.flags.depsFile
	if depsFile == "" {
		depsFile = cfg.DepsFile
	}
	if depsFile != "" {
		if !filepath.IsAbs(depsFile) {
			depsFile = filepath.Join(dir, depsFile)
		}
		return deps.FileResolver{Path: depsFile}
	}
	return deps.StaticResolver(deps.Absolutize(dir, cfg.Dependencies))
}

// lib returns the project library name, which packaging commands require.
func (p *project) lib() (types.LibraryName, error) {
	if err := p.cfg.Lib.Validate(); err != nil {
		return "", err
	}
	return p.cfg.Lib, nil
}

// resolve anchors a configured path at the project directory.
func (p *project) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}
