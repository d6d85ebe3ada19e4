package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormatMs renders a position as mm:ss.mmm.
func FormatMs(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	total := int64(math.Round(ms))
	min := total / 60000
	sec := (total / 1000) % 60
	milli := total % 1000
	return fmt.Sprintf("%02d:%02d.%03d", min, sec, milli)
}

// ParsePosition accepts "mm:ss", "mm:ss.mmm" or plain seconds.
func ParsePosition(s string) (float64, error) {
	s = strings.TrimSpace(s)
	var min, sec float64
	if strings.Contains(s, ":") {
		if _, err := fmt.Sscanf(s, "%f:%f", &min, &sec); err != nil {
			return 0, fmt.Errorf("invalid position %q", s)
		}
	} else if _, err := fmt.Sscanf(s, "%f", &sec); err != nil {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	if min < 0 || sec < 0 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return (min*60 + sec) * 1000, nil
}

// Color helpers
func getGradientColor(intensity float64, scheme ColorScheme) lipgloss.Color {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	r1, g1, b1 := hexToRGB(string(scheme.Primary))
	r2, g2, b2 := hexToRGB(string(scheme.Accent))

	r := int(float64(r1) + intensity*float64(r2-r1))
	g := int(float64(g1) + intensity*float64(g2-g1))
	b := int(float64(b1) + intensity*float64(b2-b1))

	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string(hex[0]) + string(hex[0]) +
			string(hex[1]) + string(hex[1]) +
			string(hex[2]) + string(hex[2])
	}

	var r, g, b int
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
