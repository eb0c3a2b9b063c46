package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Context     string   // Short all-caps context, e.g. "PATH NOT FOUND"
	Problem     string   // One-line description of what went wrong
	Suggestions []string // "Did you mean" candidates
	HelpCommand string   // A command the user can run next
	NoColor     bool
}

// FormatError creates a standardized error message with suggestions
//
// Example output:
//
//	PATH NOT FOUND: garden/un/2024-07-12/un_wpp/populaton
//	   No catalog entry matches this path.
//
//	   Did you mean: garden/un/2024-07-12/un_wpp/population?
//
//	   → Search the catalog: catalog search <query>
func FormatError(opts ErrorOptions) string {
	headerColor := color.New(color.FgRed, color.Bold)
	bodyColor := color.New(color.FgRed)
	hintColor := color.New(color.FgCyan)
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
		hintColor.DisableColor()
	}

	var b strings.Builder
	b.WriteString(headerColor.Sprint(opts.Context))
	b.WriteString("\n")

	if opts.Problem != "" {
		b.WriteString(bodyColor.Sprintf("   %s\n", opts.Problem))
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", ")))
	}

	if opts.HelpCommand != "" {
		b.WriteString("\n")
		b.WriteString(hintColor.Sprintf("   → %s\n", opts.HelpCommand))
	}

	return b.String()
}
