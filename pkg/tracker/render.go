package tracker

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

// Layout constants for the rendered tracker.
const (
	svgWidth   = 300
	lineHeight = 20
	paddingY   = 10
	fontSize   = 14
	textX      = 10
)

const emptyMessage = "No public activity"

// Theme is one colour variant of the tracker and the file it is written to.
type Theme struct {
	Name      string
	TextColor string
	FileName  string
}

var (
	LightTheme = Theme{Name: "light", TextColor: "#24292e", FileName: "tracker-light.svg"}
	DarkTheme  = Theme{Name: "dark", TextColor: "#c9d1d9", FileName: "tracker-dark.svg"}
)

// Themes returns the themes every run renders, in output order.
func Themes() []Theme {
	return []Theme{LightTheme, DarkTheme}
}

// Render draws summary as an SVG in theme. Each event type is one line
// "Type: count"; an empty summary renders a single placeholder line.
func Render(summary Summary, theme Theme) []byte {
	lines := make([]string, 0, len(summary))
	for _, tc := range summary {
		lines = append(lines, tc.Type+": "+strconv.Itoa(tc.Count))
	}
	if len(lines) == 0 {
		lines = append(lines, emptyMessage)
	}

	height := len(lines)*lineHeight + 2*paddingY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<svg xmlns='http://www.w3.org/2000/svg' width='%d' height='%d'>\n", svgWidth, height)
	fmt.Fprintf(&buf, "<style>text { font-family: sans-serif; fill: %s; }</style>\n", theme.TextColor)

	y := paddingY + lineHeight/2
	for _, line := range lines {
		fmt.Fprintf(&buf, "<text x='%d' y='%d' font-size='%d'>", textX, y, fontSize)
		// EscapeText only fails when the writer does; bytes.Buffer never does.
		_ = xml.EscapeText(&buf, []byte(line))
		buf.WriteString("</text>\n")
		y += lineHeight
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
