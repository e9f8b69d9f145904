// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/badigeon/pkg/jar"

	"github.com/spf13/cobra"
)

func newInspectCommand(app *App) *cobra.Command {
	var entriesOnly bool

	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Print the manifest and entries of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(app, args[0], entriesOnly)
		},
	}

	cmd.Flags().BoolVar(&entriesOnly, "entries", false, "print only the entry names")

	return cmd
}

func runInspect(app *App, path string, entriesOnly bool) error {
	contents, err := jar.Inspect(path)
	if err != nil {
		return app.fail("inspect archive", path, err)
	}

	w := app.stdout
	if entriesOnly {
		for _, e := range contents.Entries {
			fmt.Fprintln(w, e)
		}
		return nil
	}

	fmt.Fprintln(w, TitleStyle.Render(contents.Path))
	if m := contents.Manifest; m != nil {
		fmt.Fprintln(w, SubtitleStyle.Render("Manifest"))
		for _, f := range m.Main {
			fmt.Fprintf(w, "  %s: %s\n", CmdStyle.Render(f.Key), f.Value)
		}
		for _, s := range m.Sections {
			fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render("Name:"), s.Key)
			for _, f := range s.Section {
				fmt.Fprintf(w, "    %s: %s\n", CmdStyle.Render(f.Key), f.Value)
			}
		}
	}

	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("Entries (%d)", len(contents.Entries))))
	for _, e := range contents.Entries {
		fmt.Fprintln(w, "  "+e)
	}
	fmt.Fprintf(w, "%s %s\n", VerboseStyle.Render("blake3:"), contents.Digest)
	return nil
}
