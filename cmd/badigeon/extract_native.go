// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/badigeon/pkg/native"

	"github.com/spf13/cobra"
)

type extractNativeFlags struct {
	prefix   string
	out      string
	patterns []string
}

func newExtractNativeCommand(app *App) *cobra.Command {
	var flags extractNativeFlags

	cmd := &cobra.Command{
		Use:   "extract-native <archive>",
		Short: "Extract native libraries from a dependency archive",
		Long: `Extract native libraries from a dependency archive.

Entries that start with --prefix and match a native library pattern are
written under --out with the prefix stripped. Without --pattern the
default shared and static library extensions are used.`,
		Example: `  badigeon extract-native lib/lwjgl-natives-linux.jar --prefix linux/x64/ --out natives`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtractNative(cmd.Context(), app, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "entry prefix stripped from extracted paths")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "lib", "output directory")
	cmd.Flags().StringArrayVar(&flags.patterns, "pattern", nil, "regular expression selecting entries (repeatable)")

	return cmd
}

func runExtractNative(ctx context.Context, app *App, archive string, flags extractNativeFlags) error {
	patterns, err := compileNativePatterns(flags.patterns)
	if err != nil {
		return app.fail("extract native libraries", archive, err)
	}
	if patterns == nil {
		patterns = native.DefaultPatterns
	}

	written, err := native.ExtractFile(ctx, archive, flags.prefix, flags.out, patterns)
	if err != nil {
		return app.fail("extract native libraries", archive, err)
	}

	for _, path := range written {
		fmt.Fprintln(app.stdout, PathStyle.Render(path))
	}
	fmt.Fprintf(app.stdout, "%s %d native libraries\n", SuccessStyle.Render("Extracted"), len(written))
	return nil
}
