// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/badigeon/internal/issue"
	"github.com/invowk/badigeon/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "badigeon"
	// ConfigFileName is the name of the project config file (without extension).
	ConfigFileName = "badigeon"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (BADIGEON_VERSION).
	EnvPrefix = "BADIGEON"

	schemaRoot = "#Config"
)

//go:embed config_schema.cue
var configSchema []byte

// FileName returns the project config file name (badigeon.cue).
func FileName() string {
	return ConfigFileName + "." + ConfigFileExt
}

// loadWithOptions performs option-driven config loading. It returns the
// decoded config and the path of the file it came from ("" for defaults).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := newViper()

	var manifest map[string]any
	resolvedPath, explicit := opts.SourcePath()
	if explicit && !fileExists(resolvedPath) {
		// An explicit --config path must exist.
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(resolvedPath).
			WithIssue(issue.FileNotFoundId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'badigeon config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", resolvedPath)).
			BuildError()
	}
	if resolvedPath != "" {
		m, err := loadCUEIntoViper(v, resolvedPath)
		if err != nil {
			return nil, "", invalidFileError(resolvedPath, err)
		}
		manifest = m
	}
	// If no config file found, use defaults (no error)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Jar.Manifest = manifest

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Library names have the form group/artifact or artifact").
			WithSuggestion("Check BADIGEON_* environment variables for stale overrides").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a viper instance carrying defaults and env overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("lib", string(defaults.Lib))
	v.SetDefault("version", defaults.Version)
	v.SetDefault("paths", defaults.Paths)
	v.SetDefault("main", defaults.Main)
	v.SetDefault("deps_file", defaults.DepsFile)
	v.SetDefault("jar.out_path", defaults.Jar.OutPath)
	v.SetDefault("jar.exclude", defaults.Jar.Exclude)
	v.SetDefault("jar.allow_all_dependencies", defaults.Jar.AllowAllDependencies)
	v.SetDefault("jar.build_jdk", defaults.Jar.BuildJdk)
	v.SetDefault("bundle.out_path", defaults.Bundle.OutPath)
	v.SetDefault("bundle.libs_path", defaults.Bundle.LibsPath)
	v.SetDefault("bundle.natives_path", defaults.Bundle.NativesPath)
	v.SetDefault("bundle.allow_unstable_deps", defaults.Bundle.AllowUnstableDeps)
	v.SetDefault("bundle.script.platform", string(defaults.Bundle.Script.Platform))
	v.SetDefault("bundle.jlink.enabled", defaults.Bundle.Jlink.Enabled)
	v.SetDefault("bundle.jlink.java_home", defaults.Bundle.Jlink.JavaHome)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'badigeon config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. MergeConfigMap lowercases keys in
// place, so jar.manifest is copied out first and returned with its case
// intact.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, schemaRoot, cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}

	manifest := copyManifest(manifestFromRaw(configMap))

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	return manifest, nil
}

// manifestFromRaw extracts jar.manifest from the decoded CUE map.
func manifestFromRaw(raw map[string]any) map[string]any {
	jar, ok := raw["jar"].(map[string]any)
	if !ok {
		return nil
	}
	m, ok := jar["manifest"].(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	return m
}

// copyManifest deep-copies a manifest map, including its section maps.
func copyManifest(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if section, ok := v.(map[string]any); ok {
			v = maps.Clone(section)
		}
		out[k] = v
	}
	return out
}

func resolvePath(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Badigeon project configuration\n\n")

	if cfg.Lib != "" {
		fmt.Fprintf(&sb, "lib: %q\n", cfg.Lib)
	}
	if cfg.Version != "" {
		fmt.Fprintf(&sb, "version: %q\n", cfg.Version)
	}
	writeList(&sb, "", "paths", cfg.Paths)
	if cfg.Main != "" {
		fmt.Fprintf(&sb, "main: %q\n", cfg.Main)
	}
	if cfg.DepsFile != "" {
		fmt.Fprintf(&sb, "deps_file: %q\n", cfg.DepsFile)
	}

	// Jar config
	sb.WriteString("\njar: {\n")
	if cfg.Jar.OutPath != "" {
		fmt.Fprintf(&sb, "\tout_path: %q\n", cfg.Jar.OutPath)
	}
	writeList(&sb, "\t", "exclude", cfg.Jar.Exclude)
	if len(cfg.Jar.Manifest) > 0 {
		sb.WriteString("\tmanifest: {\n")
		for _, key := range sortedKeys(cfg.Jar.Manifest) {
			switch val := cfg.Jar.Manifest[key].(type) {
			case map[string]any:
				fmt.Fprintf(&sb, "\t\t%q: {\n", key)
				for _, sub := range sortedKeys(val) {
					fmt.Fprintf(&sb, "\t\t\t%q: %q\n", sub, fmt.Sprint(val[sub]))
				}
				sb.WriteString("\t\t}\n")
			default:
				fmt.Fprintf(&sb, "\t\t%q: %q\n", key, fmt.Sprint(val))
			}
		}
		sb.WriteString("\t}\n")
	}
	fmt.Fprintf(&sb, "\tallow_all_dependencies: %v\n", cfg.Jar.AllowAllDependencies)
	if cfg.Jar.BuildJdk != "" {
		fmt.Fprintf(&sb, "\tbuild_jdk: %q\n", cfg.Jar.BuildJdk)
	}
	sb.WriteString("}\n")

	// Bundle config
	b := cfg.Bundle
	sb.WriteString("\nbundle: {\n")
	if b.OutPath != "" {
		fmt.Fprintf(&sb, "\tout_path: %q\n", b.OutPath)
	}
	if b.LibsPath != "" {
		fmt.Fprintf(&sb, "\tlibs_path: %q\n", b.LibsPath)
	}
	if b.NativesPath != "" {
		fmt.Fprintf(&sb, "\tnatives_path: %q\n", b.NativesPath)
	}
	if len(b.ExcludedLibs) > 0 {
		libs := make([]string, len(b.ExcludedLibs))
		for i, l := range b.ExcludedLibs {
			libs[i] = string(l)
		}
		writeList(&sb, "\t", "excluded_libs", libs)
	}
	fmt.Fprintf(&sb, "\tallow_unstable_deps: %v\n", b.AllowUnstableDeps)
	if len(b.NativePrefixes) > 0 {
		sb.WriteString("\tnative_prefixes: [\n")
		for _, p := range b.NativePrefixes {
			fmt.Fprintf(&sb, "\t\t{lib: %q, prefix: %q},\n", p.Lib, p.Prefix)
		}
		sb.WriteString("\t]\n")
	}
	writeList(&sb, "\t", "native_extensions", b.NativeExtensions)
	sb.WriteString("\tscript: {\n")
	if b.Script.Platform != "" {
		fmt.Fprintf(&sb, "\t\tplatform: %q\n", b.Script.Platform)
	}
	writeList(&sb, "\t\t", "jvm_opts", b.Script.JVMOpts)
	writeList(&sb, "\t\t", "args", b.Script.Args)
	sb.WriteString("\t}\n")
	sb.WriteString("\tjlink: {\n")
	fmt.Fprintf(&sb, "\t\tenabled: %v\n", b.Jlink.Enabled)
	if b.Jlink.JavaHome != "" {
		fmt.Fprintf(&sb, "\t\tjava_home: %q\n", b.Jlink.JavaHome)
	}
	writeList(&sb, "\t\t", "modules", b.Jlink.Modules)
	sb.WriteString("\t}\n")
	sb.WriteString("}\n")

	// Inline dependencies
	if len(cfg.Dependencies) > 0 {
		sb.WriteString("\ndependencies: [\n")
		for _, d := range cfg.Dependencies {
			fmt.Fprintf(&sb, "\t{\n\t\tlib: %q\n", d.Lib)
			if d.Version != "" {
				fmt.Fprintf(&sb, "\t\tversion: %q\n", d.Version)
			}
			if len(d.Paths) == 0 {
				sb.WriteString("\t\tpaths: []\n")
			}
			writeList(&sb, "\t\t", "paths", d.Paths)
			if d.LocalRoot != "" {
				fmt.Fprintf(&sb, "\t\tlocal_root: %q\n", d.LocalRoot)
			}
			if d.GitURL != "" {
				fmt.Fprintf(&sb, "\t\tgit_url: %q\n", d.GitURL)
			}
			sb.WriteString("\t},\n")
		}
		sb.WriteString("]\n")
	}

	// UI config
	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

// writeList writes a CUE list field; empty lists are left out.
func writeList(sb *strings.Builder, indent, key string, items []string) {
	if len(items) == 0 {
		return
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	fmt.Fprintf(sb, "%s%s: [%s]\n", indent, key, strings.Join(quoted, ", "))
}
