package main

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/ui"
)

// helpRule styles one capture group of every match of re, keeping the text
// around it.
type helpRule struct {
	re     *regexp.Regexp
	group  int
	render func(string) string
}

// helpRules are applied in order to cobra's plain-text usage.
var helpRules = []helpRule{
	// Section headers such as "Planning:" or "Flags:".
	{regexp.MustCompile(`(?m)^([A-Z][^\n]*:)[ \t]*$`), 1, ui.RenderAccent},
	// Subcommand names in a command list.
	{regexp.MustCompile(`(?m)^  ([a-z][\w-]*)  `), 1, ui.RenderAccent},
	// Flag value types.
	{regexp.MustCompile(`--[\w-]+ (string|strings|stringArray|int|float|duration)\b`), 1, ui.RenderMuted},
	// Default values.
	{regexp.MustCompile(`(\(default [^)]*\))`), 1, ui.RenderMuted},
}

// colorizedHelpFunc renders cobra's usage with colorizeHelpOutput when
// stdout supports color.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor(os.Stdout) {
			_ = cmd.Usage()
			return
		}
		out := cmd.OutOrStdout()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, colorizeHelpOutput(buf.String()))
	}
}

func colorizeHelpOutput(s string) string {
	for _, r := range helpRules {
		s = applyHelpRule(s, r)
	}
	return s
}

func applyHelpRule(s string, r helpRule) string {
	var b bytes.Buffer
	last := 0
	for _, m := range r.re.FindAllStringSubmatchIndex(s, -1) {
		start, end := m[2*r.group], m[2*r.group+1]
		if start < 0 {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(r.render(s[start:end]))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}
