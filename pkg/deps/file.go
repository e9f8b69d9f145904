// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/badigeon/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for dependency files with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported dependency file format")

//go:embed deps_schema.cue
var depsSchema []byte

type (
	// FileResolver reads a resolved dependency file written by an external
	// resolver. The format follows the extension: .toml, .yaml, .yml, .json
	// or .cue (validated against an embedded schema). Relative paths resolve against the file's directory.
	FileResolver struct {
		Path string
	}

	depsFile struct {
		Dependencies []ResolvedDependency `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	}
)

// Resolve implements Resolver.
func (f FileResolver) Resolve(ctx context.Context) ([]ResolvedDependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading dependency file: %w", err)
	}

	parsed, err := Decode(filepath.Ext(f.Path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}

	base, err := filepath.Abs(filepath.Dir(f.Path))
	if err != nil {
		return nil, fmt.Errorf("resolving dependency file directory: %w", err)
	}
	absolutize(base, parsed)
	return parsed, nil
}

// Decode parses dependency file content. ext selects the format and includes
// the leading dot.
func Decode(ext string, data []byte) ([]ResolvedDependency, error) {
	var file depsFile
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".json":
		err = json.Unmarshal(data, &file)
	case ".cue":
		file, err = cueutil.Decode[depsFile](depsSchema, data, "#Dependencies",
			cueutil.WithFilename("dependencies.cue"), cueutil.WithConcrete(true))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing dependencies: %w", err)
	}

	for i, d := range file.Dependencies {
		if err := d.Lib.Validate(); err != nil {
			return nil, fmt.Errorf("dependency %d: %w", i, err)
		}
	}
	return file.Dependencies, nil
}
