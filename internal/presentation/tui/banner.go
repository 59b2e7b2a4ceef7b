package tui

import (
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"       _                 _           _   ", "#34d399"},
	{"   ___| |__   ___  _ __ | |__   ___ | |_ ", "#2dd4bf"},
	{"  / __| '_ \\ / _ \\| '_ \\| '_ \\ / _ \\| __|", "#22d3ee"},
	{"  \\__ \\ | | | (_) | |_) | |_) | (_) | |_ ", "#38bdf8"},
	{"  |___/_| |_|\\___/| .__/|_.__/ \\___/ \\__|", "#60a5fa"},
	{"                  |_|                    ", "#818cf8"},
}

// Banner returns the shopbot banner coloured for the terminal, framed by
// blank lines.
func Banner() string {
	p := termenv.ColorProfile()
	var sb strings.Builder
	sb.WriteString("\n")
	for _, l := range bannerLines {
		sb.WriteString(termenv.String(l.text).Foreground(p.Color(l.color)).String())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
