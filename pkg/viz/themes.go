package viz

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// ColorScheme defines the colors used when drawing lines
type ColorScheme struct {
	Primary   lipgloss.Color // bars
	Secondary lipgloss.Color // pre-song bars
	Accent    lipgloss.Color // loud bars, annotations
	Grid      lipgloss.Color
	Text      lipgloss.Color
	Highlight lipgloss.Color // playhead and selected line
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() ColorScheme {
	return ColorSchemes["default"]
}

// ColorSchemes contains all available color schemes
var ColorSchemes = map[string]ColorScheme{
	"default": {
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#0088ff"),
		Accent:    lipgloss.Color("#ff0000"),
		Grid:      lipgloss.Color("#555555"),
		Text:      lipgloss.Color("#ffffff"),
		Highlight: lipgloss.Color("#ffff00"),
	},
	"monokai": {
		Primary:   lipgloss.Color("#a6e22e"),
		Secondary: lipgloss.Color("#66d9ef"),
		Accent:    lipgloss.Color("#f92672"),
		Grid:      lipgloss.Color("#75715e"),
		Text:      lipgloss.Color("#f8f8f2"),
		Highlight: lipgloss.Color("#e6db74"),
	},
	"solarized": {
		Primary:   lipgloss.Color("#859900"),
		Secondary: lipgloss.Color("#268bd2"),
		Accent:    lipgloss.Color("#dc322f"),
		Grid:      lipgloss.Color("#586e75"),
		Text:      lipgloss.Color("#839496"),
		Highlight: lipgloss.Color("#b58900"),
	},
	"nord": {
		Primary:   lipgloss.Color("#88c0d0"),
		Secondary: lipgloss.Color("#81a1c1"),
		Accent:    lipgloss.Color("#bf616a"),
		Grid:      lipgloss.Color("#4c566a"),
		Text:      lipgloss.Color("#d8dee9"),
		Highlight: lipgloss.Color("#ebcb8b"),
	},
	"dracula": {
		Primary:   lipgloss.Color("#50fa7b"),
		Secondary: lipgloss.Color("#8be9fd"),
		Accent:    lipgloss.Color("#ff79c6"),
		Grid:      lipgloss.Color("#6272a4"),
		Text:      lipgloss.Color("#f8f8f2"),
		Highlight: lipgloss.Color("#f1fa8c"),
	},
}

// SchemeByName looks up a scheme, listing the valid names on failure.
func SchemeByName(name string) (ColorScheme, error) {
	if s, ok := ColorSchemes[name]; ok {
		return s, nil
	}
	return ColorScheme{}, fmt.Errorf("unknown color scheme %q (have %v)", name, SchemeNames())
}

// SchemeNames returns the scheme names in sorted order.
func SchemeNames() []string {
	names := make([]string, 0, len(ColorSchemes))
	for name := range ColorSchemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
