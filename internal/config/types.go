// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/platform"
	"github.com/invowk/badigeon/pkg/types"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the project configuration.
	Config struct {
		// Lib is the project library name (group/artifact).
		Lib types.LibraryName `json:"lib" mapstructure:"lib"`
		// Version is the project version; may be empty.
		Version string `json:"version" mapstructure:"version"`
		// Paths lists the project's own output paths, relative to the project dir.
		Paths []string `json:"paths" mapstructure:"paths"`
		// Main is the main namespace used for Main-Class and launch scripts.
		Main string `json:"main" mapstructure:"main"`
		// Jar configures archive writing.
		Jar JarConfig `json:"jar" mapstructure:"jar"`
		// Bundle configures bundle copying.
		Bundle BundleConfig `json:"bundle" mapstructure:"bundle"`
		// Dependencies is the inline resolved dependency set.
		Dependencies []deps.ResolvedDependency `json:"dependencies" mapstructure:"dependencies"`
		// DepsFile points to a resolved dependency file; it wins over Dependencies.
		DepsFile string `json:"deps_file" mapstructure:"deps_file"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// JarConfig configures the archive writer.
	JarConfig struct {
		OutPath string `json:"out_path" mapstructure:"out_path"`
		// Exclude holds doublestar globs excluded on top of the default exclusion.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
		// Manifest holds manifest overrides. Values are strings or string maps
		// (named sections). Filled from the decoded CUE value so key case survives.
		Manifest             map[string]any `json:"manifest" mapstructure:"-"`
		AllowAllDependencies bool           `json:"allow_all_dependencies" mapstructure:"allow_all_dependencies"`
		BuildJdk             string         `json:"build_jdk" mapstructure:"build_jdk"`
	}

	// BundleConfig configures the bundle copier.
	BundleConfig struct {
		OutPath           string              `json:"out_path" mapstructure:"out_path"`
		LibsPath          string              `json:"libs_path" mapstructure:"libs_path"`
		NativesPath       string              `json:"natives_path" mapstructure:"natives_path"`
		ExcludedLibs      []types.LibraryName `json:"excluded_libs" mapstructure:"excluded_libs"`
		AllowUnstableDeps bool                `json:"allow_unstable_deps" mapstructure:"allow_unstable_deps"`
		NativePrefixes    []NativePrefix      `json:"native_prefixes" mapstructure:"native_prefixes"`
		// NativeExtensions replaces the default native library patterns.
		// Each entry is a regular expression matched against entry names.
		NativeExtensions []string     `json:"native_extensions" mapstructure:"native_extensions"`
		Script           ScriptConfig `json:"script" mapstructure:"script"`
		Jlink            JlinkConfig  `json:"jlink" mapstructure:"jlink"`
	}

	// NativePrefix declares where a dependency keeps its native libraries.
	NativePrefix struct {
		Lib    types.LibraryName `json:"lib" mapstructure:"lib"`
		Prefix string            `json:"prefix" mapstructure:"prefix"`
	}

	// ScriptConfig configures the launch script.
	ScriptConfig struct {
		Platform platform.Script `json:"platform" mapstructure:"platform"`
		JVMOpts  []string        `json:"jvm_opts" mapstructure:"jvm_opts"`
		Args     []string        `json:"args" mapstructure:"args"`
	}

	// JlinkConfig configures the trimmed runtime.
	JlinkConfig struct {
		Enabled  bool     `json:"enabled" mapstructure:"enabled"`
		JavaHome string   `json:"java_home" mapstructure:"java_home"`
		Modules  []string `json:"modules" mapstructure:"modules"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no project file exists.
func DefaultConfig() *Config {
	return &Config{
		Paths: []string{"src"},
		Bundle: BundleConfig{
			LibsPath:    "lib",
			NativesPath: "lib",
			Script: ScriptConfig{
				Platform: platform.HostScript(),
			},
		},
	}
}

// NativePrefixMap converts the configured prefixes into the extractor's map form.
func (c BundleConfig) NativePrefixMap() map[types.LibraryName]string {
	if len(c.NativePrefixes) == 0 {
		return nil
	}
	m := make(map[types.LibraryName]string, len(c.NativePrefixes))
	for _, p := range c.NativePrefixes {
		m[p.Lib] = p.Prefix
	}
	return m
}

// Validate checks the constraints CUE does not see after env overrides
// have been applied.
func (c *Config) Validate() error {
	var errs []error
	if c.Lib != "" {
		if err := c.Lib.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Bundle.Script.Platform != "" {
		if err := c.Bundle.Script.Platform.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, lib := range c.Bundle.ExcludedLibs {
		if err := lib.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	seen := make(map[types.LibraryName]bool, len(c.Bundle.NativePrefixes))
	for _, p := range c.Bundle.NativePrefixes {
		if seen[p.Lib] {
			errs = append(errs, fmt.Errorf("bundle.native_prefixes: duplicate entry for %s", p.Lib))
		}
		seen[p.Lib] = true
	}
	for i, d := range c.Dependencies {
		if err := d.Lib.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("dependencies[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
