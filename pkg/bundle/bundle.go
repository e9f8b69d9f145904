// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/jlink"
	"github.com/invowk/badigeon/pkg/native"
	"github.com/invowk/badigeon/pkg/types"
)

type (
	// Options configures Bundle.
	Options struct {
		CopyOptions
		// NativePrefixes enables native extraction for the listed
		// dependencies.
		NativePrefixes map[types.LibraryName]string
		NativePatterns []*regexp.Regexp
		// EntryPoint is the namespace started by the launch script. No script
		// is written when it is empty.
		EntryPoint string
		Script     ScriptOptions
		// Jlink builds a runtime image when non-nil. Its OutputRoot is set
		// to the bundle root.
		Jlink *jlink.Options
	}

	// Result describes a finished bundle.
	Result struct {
		OutputRoot string
		// Copied lists the claimed paths relative to the output root,
		// extracted native libraries included.
		Copied []string
		// ScriptPath is empty when no script was written.
		ScriptPath string
		// Runtime is set when a runtime image was built.
		Runtime *jlink.Output
	}
)

// Bundle copies dependencies and project paths, extracts native libraries,
// builds the runtime image and writes the launch script, in that order.
func Bundle(ctx context.Context, opts Options) (*Result, error) {
	session := opts.Session
	if session == nil {
		session = NewSession()
	}
	copyOpts := opts.CopyOptions
	copyOpts.Session = session

	outRoot, err := Copy(ctx, copyOpts)
	if err != nil {
		return nil, err
	}
	layout := opts.Layout
	layout.OutputRoot = outRoot
	res := &Result{OutputRoot: outRoot}

	if len(opts.NativePrefixes) > 0 {
		_, err := native.Extract(ctx, native.Options{
			OutputRoot:   outRoot,
			NativesPath:  layout.Natives(),
			Dependencies: deps.Exclude(opts.Dependencies, opts.ExcludedLibs),
			Prefixes:     opts.NativePrefixes,
			Patterns:     opts.NativePatterns,
			Claim: func(source, dest string) error {
				return session.Claim(layout.key(dest), source, dest)
			},
		})
		if err != nil {
			return nil, err
		}
	}
	res.Copied = session.Paths()

	if opts.Jlink != nil {
		jopts := *opts.Jlink
		jopts.OutputRoot = outRoot
		out, err := jlink.Run(ctx, jopts)
		if err != nil {
			return nil, err
		}
		res.Runtime = &out
	}

	if opts.EntryPoint != "" {
		scriptOpts := opts.Script
		if scriptOpts.LibsPath == "" {
			scriptOpts.LibsPath = layout.libsClasspath()
		}
		path, err := WriteScript(outRoot, opts.EntryPoint, scriptOpts)
		if err != nil {
			return nil, err
		}
		res.ScriptPath = path
	} else {
		slog.Debug("no entry point configured, skipping launch script", "bundle", outRoot)
	}

	return res, nil
}
