package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"musicality/pkg/viz"
	"musicality/pkg/waveform"
)

func (m Model) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	if m.loading.IsLoading {
		return m.loadingView()
	}

	var sb strings.Builder
	sb.WriteString(m.headerView())
	sb.WriteString("\n")

	body := m.linesView()
	if m.showHelp {
		body = m.viewport.View()
	}
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(m.footerView())
	return sb.String()
}

func (m Model) loadingView() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s %s\n", m.spinner.View(), m.loading.Message))

	if m.loading.Progress > 0 {
		sb.WriteString(m.progress.ViewAs(m.loading.Progress))
		if eta := m.loading.GetETA(time.Now()); eta != "" {
			sb.WriteString(fmt.Sprintf("\nETA: %s", eta))
		}
	}
	if m.loading.CanCancel {
		sb.WriteString("\n(Press Ctrl+C to cancel)")
	}
	return sb.String()
}

func (m Model) headerView() string {
	scheme := m.renderer.Scheme
	title := lipgloss.NewStyle().Bold(true).Foreground(scheme.Text)
	dim := lipgloss.NewStyle().Foreground(scheme.Grid)

	if m.sess == nil {
		return title.Render("musicality") + "\n" + dim.Render(strings.Repeat("─", max(0, m.width)))
	}

	t := m.sess.Track()
	fields := []string{
		fmt.Sprintf("%.2f BPM", m.sess.BPM()),
		fmt.Sprintf("%d beats", m.sess.BeatsPerLine()),
		fmt.Sprintf("offset %+.0f ms", m.sess.OffsetMs()),
		fmt.Sprintf("rects %s", m.sess.RectsPerBeat()),
		m.theme,
	}
	header := title.Render(fmt.Sprintf("%s - %s", t.Artist, t.Title)) +
		dim.Render(" │ "+strings.Join(fields, " │ "))
	return header + "\n" + dim.Render(strings.Repeat("─", max(0, m.width)))
}

// linesView draws the visible slots.
func (m Model) linesView() string {
	slots := m.visibleSlots()
	rows := make([]string, 0, slots*slotRows)

	if m.sess == nil {
		return m.pad(rows, slots*slotRows)
	}

	cfg := m.waveformConfig()
	if err := cfg.Validate(); err != nil {
		rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Cannot draw: "+err.Error()))
		return m.pad(rows, slots*slotRows)
	}

	cols := m.lineCols()
	pos := m.sess.PositionMs()
	current := waveform.ChunkAt(pos, cfg)
	gutter := lipgloss.NewStyle().Foreground(m.renderer.Scheme.Text).Width(labelWidth)
	active := gutter.Foreground(m.renderer.Scheme.Highlight).Bold(true)
	blank := strings.Repeat(" ", labelWidth)

	idx := m.lineIndexes()
	for _, chunk := range idx[min(m.top, len(idx)):min(len(idx), m.top+slots)] {
		line := m.manager.Line(m.request(chunk))
		ov := viz.Overlay{
			PlayheadMs:  pos,
			HasPlayhead: chunk == current,
			Selected:    chunk == current,
		}
		marks, markIdx := m.sess.AnnotationsIn(line.Bounds)
		for i, a := range marks {
			ov.Markers = append(ov.Markers, viz.Marker{
				TimeMs:   a.TimeMs,
				Label:    a.Label,
				Selected: markIdx[i] == m.selected,
			})
		}

		drawn := strings.Split(m.renderer.Render(line, cols, rowsPerLine, ov), "\n")
		for len(drawn) < slotRows {
			drawn = append(drawn, "")
		}
		for i, r := range drawn {
			prefix := blank
			if i == 0 {
				style := gutter
				if ov.Selected {
					style = active
				}
				prefix = style.Render(viz.LineLabel(line))
			}
			rows = append(rows, prefix+r)
		}
	}
	return m.pad(rows, slots*slotRows)
}

func (m Model) pad(rows []string, n int) string {
	for len(rows) < n {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) footerView() string {
	var sb strings.Builder

	switch {
	case m.err != nil:
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Error: " + m.err.Error()))
	case m.tabOutput != "":
		sb.WriteString(m.tabOutput)
	default:
		sb.WriteString(m.status)
	}
	sb.WriteString("\n")

	if m.sess != nil {
		duration := m.sess.Track().Duration * 1000
		fraction := 0.0
		if duration > 0 {
			fraction = m.sess.PositionMs() / duration
		}
		sb.WriteString(fmt.Sprintf("%s %s / %s", m.progress.ViewAs(fraction),
			viz.FormatMs(m.sess.PositionMs()), viz.FormatMs(duration)))
	}
	sb.WriteString("\n")

	switch m.mode {
	case ModeCommand:
		sb.WriteString(":" + m.input.View())
	case ModeLabel:
		sb.WriteString("label> " + m.input.View())
	default:
		sb.WriteString(lipgloss.NewStyle().Foreground(m.renderer.Scheme.Grid).
			Render("? help  : command  a annotate  q quit"))
	}
	return sb.String()
}
