// Package ui renders terminal output for the artron CLI.
package ui

import (
	"fmt"
	"strconv"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorSuccess = 114 // green
	colorFailure = 203 // red
	colorMuted   = 245 // medium gray
)

var useColor = true

// SetColor turns ANSI styling on or off for every Render function.
func SetColor(on bool) {
	useColor = on
}

func render(code int, s string) string {
	if !useColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderSuccess returns s in the success (green) color.
func RenderSuccess(s string) string { return render(colorSuccess, s) }

// RenderFailure returns s in the failure (red) color.
func RenderFailure(s string) string { return render(colorFailure, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// ProgressLine formats one finished download, e.g.
//
//	[ 3/12] ok   TIC 12345678 s0007  2.8 KB
func ProgressLine(done, total int, ok bool, label, detail string) string {
	width := len(strconv.Itoa(total))
	counter := RenderMuted(fmt.Sprintf("[%*d/%d]", width, done, total))
	status := RenderSuccess("ok  ")
	if !ok {
		status = RenderFailure("FAIL")
	}
	line := counter + " " + status + " " + label
	if detail != "" {
		line += "  " + RenderMuted(detail)
	}
	return line
}

// FormatBytes renders n with a binary unit, e.g. "2.8 KB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
