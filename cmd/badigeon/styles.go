// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette tuned for dark terminals. NO_COLOR and non-TTY output are handled
// by lipgloss's renderer, so callers never branch on color support.
var (
	colorTitle   = lipgloss.Color("#7C3AED")
	colorDim     = lipgloss.Color("#6B7280")
	colorGood    = lipgloss.Color("#10B981")
	colorCaution = lipgloss.Color("#F59E0B")
	colorAccent  = lipgloss.Color("#3B82F6")
	colorDetail  = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle heads a report, e.g. the archive name in inspect.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)

	// SubtitleStyle labels a section or a field name.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorDim)

	// SuccessStyle renders the one-line summary of a finished packaging step.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorGood)

	WarningStyle = lipgloss.NewStyle().Foreground(colorCaution)

	// CmdStyle marks literal values: entry names, flags, main classes.
	CmdStyle = lipgloss.NewStyle().Foreground(colorAccent)

	// VerboseStyle is used for the per-file listings printed with --verbose.
	VerboseStyle = lipgloss.NewStyle().Foreground(colorDetail)

	PathStyle = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
)
