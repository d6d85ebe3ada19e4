package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"musicality/pkg/waveform"
)

type cell struct {
	top, bottom bool
	intensity   float64
}

// Renderer rasterizes lines into styled terminal text.
type Renderer struct {
	Scheme ColorScheme
}

func NewRenderer(scheme ColorScheme) *Renderer {
	return &Renderer{Scheme: scheme}
}

// Render draws line into cols x rows cells. Each cell holds two vertical
// half-pixels, so the line must have been computed with
// PixelHeight(rows). A marker row is appended when ov has markers.
func (r *Renderer) Render(line Line, cols, rows int, ov Overlay) string {
	if cols < 1 || rows < 1 {
		return ""
	}

	grid := rasterize(line.Bars, cols, rows)

	gridCols := make(map[int]waveform.LineType, len(line.Grid))
	for _, g := range line.Grid {
		col := int(math.Round(g.X))
		if col > 0 && col < cols {
			gridCols[col] = g.Type
		}
	}

	playhead := -1
	if ov.HasPlayhead && ov.PlayheadMs >= line.Bounds.StartTimeMs && ov.PlayheadMs <= line.Bounds.EndTimeMs {
		px := waveform.TimeToPixel(ov.PlayheadMs, line.Bounds, float64(cols))
		playhead = clamp(int(px), 0, cols-1)
	}

	barColor := r.Scheme.Primary
	if line.Index == waveform.PreSongChunk {
		barColor = r.Scheme.Secondary
	}
	gridStyle := lipgloss.NewStyle().Foreground(r.Scheme.Grid)
	headStyle := lipgloss.NewStyle().Foreground(r.Scheme.Highlight).Bold(true)

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := grid[y][x]
			ch := blockFor(c)
			switch {
			case x == playhead:
				if ch == " " {
					ch = "│"
				}
				sb.WriteString(headStyle.Render(ch))
			case ch != " ":
				color := barColor
				if line.Index != waveform.PreSongChunk {
					color = getGradientColor(c.intensity, r.Scheme)
				}
				sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(ch))
			default:
				if t, ok := gridCols[x]; ok {
					sb.WriteString(gridStyle.Render(gridChar(t)))
				} else {
					sb.WriteString(" ")
				}
			}
		}
		if y < rows-1 {
			sb.WriteString("\n")
		}
	}

	if len(ov.Markers) > 0 {
		sb.WriteString("\n")
		sb.WriteString(r.markerRow(line.Bounds, cols, ov.Markers))
	}
	return sb.String()
}

// rasterize maps bar rectangles onto half-cell pixels.
func rasterize(bars []waveform.RenderBar, cols, rows int) [][]cell {
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}

	usable := float64(rows) * visualRangeRows
	for _, b := range bars {
		x0 := int(math.Round(b.X))
		x1 := int(math.Round(b.X + b.Width))
		if x1 <= x0 {
			x1 = x0 + 1
		}
		x0 = clamp(x0, 0, cols)
		x1 = clamp(x1, 0, cols)

		y0 := clamp(int(math.Floor(b.Y)), 0, rows*2)
		y1 := clamp(int(math.Ceil(b.Y+b.Height)), 0, rows*2)

		intensity := 0.0
		if usable > 0 {
			intensity = b.Height / usable
		}

		for x := x0; x < x1; x++ {
			for hy := y0; hy < y1; hy++ {
				c := &grid[hy/2][x]
				if hy%2 == 0 {
					c.top = true
				} else {
					c.bottom = true
				}
				c.intensity = math.Max(c.intensity, intensity)
			}
		}
	}
	return grid
}

// visualRangeRows is the share of 2*rows half-pixels a full-scale bar fills:
// 80% of the half-height on both sides of the centre line.
const visualRangeRows = 2 * 0.8

func blockFor(c cell) string {
	switch {
	case c.top && c.bottom:
		return "█"
	case c.top:
		return "▀"
	case c.bottom:
		return "▄"
	}
	return " "
}

func gridChar(t waveform.LineType) string {
	if t == waveform.LineQuarter {
		return "│"
	}
	return "┊"
}

func (r *Renderer) markerRow(bounds waveform.ChunkBounds, cols int, markers []Marker) string {
	row := []rune(strings.Repeat(" ", cols))
	for _, m := range markers {
		col := clamp(int(waveform.TimeToPixel(m.TimeMs, bounds, float64(cols))), 0, cols-1)
		glyph := "▲"
		if m.Selected {
			glyph = "◆"
		}
		label := []rune(glyph + m.Label)
		for i, ch := range label {
			if col+i >= cols {
				break
			}
			row[col+i] = ch
		}
	}
	return lipgloss.NewStyle().Foreground(r.Scheme.Accent).Render(string(row))
}

// GutterWidth is the width reserved left of a line for its label.
const GutterWidth = 15

// LineLabel is the gutter text shown left of a line.
func LineLabel(line Line) string {
	name := fmt.Sprintf("%4d", line.Index+1)
	if line.Index == waveform.PreSongChunk {
		name = " pre"
	}
	return fmt.Sprintf("%s %s", name, FormatMs(line.Bounds.StartTimeMs))
}
