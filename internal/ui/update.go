package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"musicality/internal/logging"
	"musicality/pkg/viz"
)

// Update is the main update function for the Bubble Tea loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerRows-footerRows)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerRows - footerRows
		}
		// Every cached line was sized for the old viewport.
		if m.manager != nil {
			m.manager.Reset()
		}
		m.progress.Width = max(10, msg.Width-24)
		m.input.Width = max(10, msg.Width-4)
		m.clearTabCompletion()
		m.clampScroll()
		return m, m.precompute()

	case progressMsg:
		m.loading.UpdateProgress(float64(msg))
		return m, waitForProgress(m.progCh)

	case peaksMsg:
		if msg.path != m.loadingPath {
			return m, nil // superseded by a later open
		}
		m.loading.Finish()
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				m.status = "Load cancelled"
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		if err := m.attach(msg.path, msg.peaks); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Loaded %s (%s)", filepath.Base(msg.path), viz.FormatMs(m.sess.Track().Duration*1000))
		return m, m.precompute()

	case precomputedMsg:
		if msg.err != nil {
			logging.Debugf("precompute: %v", msg.err)
		}
		if m.manager != nil && logging.Enabled() {
			hits, misses, entries := m.manager.Stats()
			logging.Debugf("line cache: %d hits, %d misses, %d entries", hits, misses, entries)
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading.IsLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.loading.IsLoading && m.loading.CanCancel {
			m.cancel()
			m.loading.Finish()
			m.status = "Load cancelled"
			return m, nil
		}
		return m.run("quit")
	}

	switch m.mode {
	case ModeCommand:
		return m.handleCommandKey(msg)
	case ModeLabel:
		return m.handleLabelKey(msg)
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case ":":
		m.mode = ModeCommand
		m.input.Placeholder = "command (help for list)"
		m.input.SetValue("")
		return m, m.input.Focus()
	case "a":
		if m.sess == nil {
			return m, nil
		}
		return m, m.beginLabel(m.sess.PositionMs())
	case "esc":
		m.selected = -1
		m.err = nil
		return m, nil
	}

	out, cmd, err := m.handleShortcut(msg.String())
	m.report(out, err)
	return m, cmd
}

func (m Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveInput()
		return m, nil

	case tea.KeyEnter:
		line := m.input.Value()
		m.leaveInput()
		if line == "" {
			return m, nil
		}
		m.history = append(m.history, line)
		m.historyPos = -1
		return m.run(line)

	case tea.KeyTab:
		m.handleTabCompletion()
		return m, nil

	case tea.KeyUp:
		if m.historyPos < len(m.history)-1 {
			m.historyPos++
			m.input.SetValue(m.history[len(m.history)-1-m.historyPos])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyPos > 0 {
			m.historyPos--
			m.input.SetValue(m.history[len(m.history)-1-m.historyPos])
			m.input.CursorEnd()
		} else if m.historyPos == 0 {
			m.historyPos = -1
			m.input.SetValue("")
		}
		return m, nil
	}

	m.clearTabCompletion()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleLabelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	case tea.KeyEnter:
		label := m.input.Value()
		m.leaveInput()
		m.selected = m.sess.Annotate(m.labelAt, label)
		m.status = "Marked " + describeMark(m.labelAt, label)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) beginLabel(ms float64) tea.Cmd {
	m.mode = ModeLabel
	m.labelAt = ms
	m.input.Placeholder = "label for " + viz.FormatMs(ms)
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) leaveInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.SetValue("")
	m.clearTabCompletion()
}

// run executes a command line and reports its result.
func (m Model) run(line string) (tea.Model, tea.Cmd) {
	out, cmd, err := m.execute(line)
	m.report(out, err)
	return m, cmd
}

func (m *Model) report(out string, err error) {
	if err != nil {
		m.err = err
		return
	}
	if out != "" {
		m.err = nil
		m.status = out
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil || m.showHelp || m.mode != ModeNormal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-1)
		return m, m.precompute()
	case tea.MouseButtonWheelDown:
		m.scroll(1)
		return m, m.precompute()
	}

	switch msg.Action {
	case tea.MouseActionPress:
		_, ms, ok := m.hit(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if i := m.sess.NearestAnnotation(ms, 2*m.cellMs()); i >= 0 {
				a := m.sess.Annotations()[i]
				m.selected = i
				m.dragging = true
				m.status = describeMark(a.TimeMs, a.Label)
				return m, nil
			}
			m.selected = -1
			m.sess.Seek(ms)
			m.status = "At " + viz.FormatMs(m.sess.PositionMs())
		case tea.MouseButtonRight:
			return m, m.beginLabel(ms)
		}

	case tea.MouseActionMotion:
		if !m.dragging || m.selected < 0 {
			return m, nil
		}
		if _, ms, ok := m.hit(msg.X, msg.Y); ok {
			if i, err := m.sess.MoveAnnotation(m.selected, ms); err == nil {
				m.selected = i
				m.status = "Moved to " + viz.FormatMs(ms)
			}
		}

	case tea.MouseActionRelease:
		m.dragging = false
	}
	return m, nil
}
