package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _     _ _       _", "#818cf8"},
	{" | |__ | (_)_ __ | | __", "#a78bfa"},
	{" | '_ \\| | | '_ \\| |/ /", "#c084fc"},
	{" | |_) | | | | | |   <", "#e879f9"},
	{" |_.__/|_|_|_| |_|_|\\_\\", "#f472b6"},
}

// PrintBanner writes the blink ASCII banner to w, colored for the terminal
// profile of w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
