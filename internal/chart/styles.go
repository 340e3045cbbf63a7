package chart

import "github.com/charmbracelet/lipgloss"

// DefaultColorScheme is the palette used when a chart's config names none.
const DefaultColorScheme = "aurora"

// palettes maps color scheme names to the colors cycled over data sets in
// registry order.
var palettes = map[string][]string{
	"aurora": {
		"#7aa2f7",
		"#f7768e",
		"#9ece6a",
		"#e0af68",
		"#bb9af7",
		"#7dcfff",
		"#ff9e64",
		"#2ac3de",
	},
	"ember": {
		"#f7768e",
		"#ff9e64",
		"#e0af68",
		"#d19a66",
		"#ffb86c",
	},
	"mono": {
		"252",
		"248",
		"244",
		"240",
	},
	"oceanic": {
		"#7dcfff",
		"#2ac3de",
		"#7aa2f7",
		"#68c9c2",
		"#5fb3b3",
	},
}

// HasColorScheme reports whether name is a known palette.
func HasColorScheme(name string) bool {
	_, ok := palettes[name]
	return ok
}

// paletteFor returns the named palette, falling back to the default for
// unknown names.
func paletteFor(name string) []string {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[DefaultColorScheme]
}

var (
	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	previewWindowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)
