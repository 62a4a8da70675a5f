package ui

import (
	"os"
	"strings"
	"testing"
)

func TestShouldUseColor(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"NoColorWins", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, false},
		{"ForceWithoutTTY", map[string]string{"CLICOLOR_FORCE": "1"}, true},
		{"CLIColorZero", map[string]string{"CLICOLOR": "0"}, false},
		{"NotATerminal", map[string]string{}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"NO_COLOR", "CLICOLOR_FORCE", "CLICOLOR"} {
				t.Setenv(k, "")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			// A regular file is never a terminal.
			f, err := os.CreateTemp(t.TempDir(), "out")
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			if got := ShouldUseColor(f); got != tc.want {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	t.Cleanup(func() { SetColor(true) })

	SetColor(true)
	if got := RenderSuccess("ok"); got != "\x1b[38;5;114mok\x1b[0m" {
		t.Errorf("RenderSuccess = %q", got)
	}
	if got := RenderFailure("x"); !strings.Contains(got, "203m") {
		t.Errorf("RenderFailure = %q", got)
	}

	SetColor(false)
	for _, got := range []string{RenderAccent("a"), RenderSuccess("a"), RenderFailure("a"), RenderMuted("a")} {
		if got != "a" {
			t.Errorf("uncolored render = %q, want %q", got, "a")
		}
	}
}

func TestProgressLine(t *testing.T) {
	SetColor(false)
	t.Cleanup(func() { SetColor(true) })

	for _, tc := range []struct {
		name   string
		done   int
		total  int
		ok     bool
		detail string
		want   string
	}{
		{"Success", 3, 12, true, "2.8 KB", "[ 3/12] ok   TIC 1 s0007  2.8 KB"},
		{"Failure", 12, 12, false, "HTTP 404", "[12/12] FAIL TIC 1 s0007  HTTP 404"},
		{"NoDetail", 1, 1, true, "", "[1/1] ok   TIC 1 s0007"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := ProgressLine(tc.done, tc.total, tc.ok, "TIC 1 s0007", tc.detail)
			if got != tc.want {
				t.Errorf("ProgressLine = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	for _, tc := range []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{2880, "2.8 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	} {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
