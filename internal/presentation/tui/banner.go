package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the strata banner and version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Layered palette, top to bottom.
	lines := []struct {
		text, color string
	}{
		{"     _             _        ", "#818cf8"},
		{" ___| |_ _ __ __ _| |_ __ _ ", "#a78bfa"},
		{"/ __| __| '__/ _` | __/ _` |", "#c084fc"},
		{"\\__ \\ |_| | | (_| | || (_| |", "#e879f9"},
		{"|___/\\__|_|  \\__,_|\\__\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
