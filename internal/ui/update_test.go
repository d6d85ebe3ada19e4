package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/floats/scalar"

	"musicality/internal/audio"
	"musicality/internal/config"
)

const tol = 1e-6

const (
	testWidth  = labelWidth + 80
	testHeight = headerRows + footerRows + 4*slotRows
)

func testSettings() config.Settings {
	return config.Settings{BPM: 120, BeatsPerLine: 8, RectsPerBeat: "auto", Theme: "default"}
}

// loadedModel is a model showing 10 s of silence at 120 BPM, 8 beats per
// line: three 4 s lines of 80 columns, four slots high.
func loadedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel("song.wav", testSettings())
	t.Cleanup(m.cancel)

	peaks := &audio.Peaks{
		Data:       make([]float64, 44100*10),
		SampleRate: 44100,
		Duration:   10,
		Meta:       &audio.Metadata{Title: "Song", Artist: "Band"},
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	next, _ = next.(Model).Update(peaksMsg{path: "song.wav", peaks: peaks})
	m = next.(Model)
	if m.sess == nil {
		t.Fatalf("session not attached: %v", m.err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: b, Action: tea.MouseActionPress}
}

func TestPeaksAttach(t *testing.T) {
	m := loadedModel(t)

	if m.loading.IsLoading {
		t.Error("still loading after peaks arrived")
	}
	if got := m.lineIndexes(); len(got) != 3 || got[0] != 0 {
		t.Errorf("lineIndexes = %v, want [0 1 2]", got)
	}
	if m.lineCols() != 80 || m.visibleSlots() != 4 {
		t.Errorf("layout = %d cols, %d slots", m.lineCols(), m.visibleSlots())
	}
}

func TestStalePeaksIgnored(t *testing.T) {
	m := loadedModel(t)
	m = update(t, m, peaksMsg{path: "other.wav", peaks: &audio.Peaks{SampleRate: 1, Duration: 1}})
	if m.sess.Track().Title != "Song" {
		t.Errorf("stale load replaced the session")
	}
}

func TestHit(t *testing.T) {
	m := loadedModel(t)

	tests := []struct {
		name      string
		x, y      int
		wantOK    bool
		wantChunk int
		wantMs    float64
	}{
		{"middle of first line", labelWidth + 40, headerRows, true, 0, 2025},
		{"marker row belongs to the line", labelWidth, headerRows + rowsPerLine, true, 0, 25},
		{"start of second line", labelWidth, headerRows + slotRows, true, 1, 4025},
		{"gutter", labelWidth - 1, headerRows, false, 0, 0},
		{"header", labelWidth + 1, 0, false, 0, 0},
		{"slot past the last line", labelWidth, headerRows + 3*slotRows, false, 0, 0},
		{"footer", labelWidth, testHeight - 1, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk, ms, ok := m.hit(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if chunk != tt.wantChunk || !scalar.EqualWithinAbs(ms, tt.wantMs, tol) {
				t.Errorf("hit = (%d, %v), want (%d, %v)", chunk, ms, tt.wantChunk, tt.wantMs)
			}
		})
	}
}

func TestClickSeeks(t *testing.T) {
	m := loadedModel(t)
	m = update(t, m, press(labelWidth+40, headerRows, tea.MouseButtonLeft))

	if got := m.sess.PositionMs(); !scalar.EqualWithinAbs(got, 2025, tol) {
		t.Errorf("PositionMs = %v, want 2025", got)
	}
}

func TestRightClickAnnotates(t *testing.T) {
	m := loadedModel(t)
	m = update(t, m, press(labelWidth, headerRows+slotRows, tea.MouseButtonRight))
	if m.mode != ModeLabel {
		t.Fatalf("mode = %v, want label", m.mode)
	}

	m = update(t, m, key("drop"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	marks := m.sess.Annotations()
	if len(marks) != 1 || !scalar.EqualWithinAbs(marks[0].TimeMs, 4025, tol) || marks[0].Label != "drop" {
		t.Fatalf("annotations = %+v", marks)
	}
	if m.selected != 0 || m.mode != ModeNormal {
		t.Errorf("selected = %d, mode = %v", m.selected, m.mode)
	}
}

func TestDragMovesAnnotation(t *testing.T) {
	m := loadedModel(t)
	m.sess.Annotate(1000, "verse")

	m = update(t, m, press(labelWidth+20, headerRows, tea.MouseButtonLeft))
	if !m.dragging || m.selected != 0 {
		t.Fatalf("press did not grab the annotation: dragging=%v selected=%d", m.dragging, m.selected)
	}
	m = update(t, m, tea.MouseMsg{X: labelWidth + 60, Y: headerRows, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: labelWidth + 60, Y: headerRows, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	marks := m.sess.Annotations()
	if len(marks) != 1 || !scalar.EqualWithinAbs(marks[0].TimeMs, 3025, tol) {
		t.Errorf("annotations = %+v, want one at 3025", marks)
	}
	if m.dragging {
		t.Error("still dragging after release")
	}
	if m.sess.PositionMs() != 0 {
		t.Errorf("grabbing an annotation moved the playhead to %v", m.sess.PositionMs())
	}
}

func TestShortcuts(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, key("]"))
	m = update(t, m, key("]"))
	m = update(t, m, key("{"))
	if got := m.sess.OffsetMs(); got != 19 {
		t.Errorf("OffsetMs = %v, want 19", got)
	}

	m = update(t, m, key(">"))
	if got := m.sess.BPM(); got != 121 {
		t.Errorf("BPM = %v, want 121", got)
	}

	m = update(t, m, key("+"))
	if got := m.sess.BeatsPerLine(); got != 4 {
		t.Errorf("BeatsPerLine = %d, want 4", got)
	}

	m = update(t, m, key("r"))
	if got := m.sess.RectsPerBeat().String(); got != "1" {
		t.Errorf("RectsPerBeat = %s, want 1", got)
	}
}

func TestCommandLine(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, key(":"))
	if m.mode != ModeCommand {
		t.Fatalf("mode = %v, want command", m.mode)
	}
	m = update(t, m, key("bpm 90"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.sess.BPM() != 90 {
		t.Errorf("BPM = %v, want 90", m.sess.BPM())
	}
	if m.mode != ModeNormal || len(m.history) != 1 {
		t.Errorf("mode = %v, history = %v", m.mode, m.history)
	}

	m = update(t, m, key(":"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "bpm 90" {
		t.Errorf("history recall = %q", got)
	}
}

func TestView(t *testing.T) {
	m := loadedModel(t)
	out := m.View()

	for _, want := range []string{"Band - Song", "120.00 BPM", "   1 00:00.000", "   3 00:08.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := len(strings.Split(out, "\n")); got != testHeight {
		t.Errorf("view has %d rows, want %d", got, testHeight)
	}
}

func TestResizeDropsCachedLines(t *testing.T) {
	m := loadedModel(t)
	m.View()
	if _, _, entries := m.manager.Stats(); entries != 3 {
		t.Fatalf("cached %d lines after drawing, want 3", entries)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: testWidth + 20, Height: testHeight})
	if _, _, entries := m.manager.Stats(); entries != 0 {
		t.Errorf("cached %d lines after resize, want 0", entries)
	}
	if m.lineCols() != 100 {
		t.Errorf("lineCols = %d, want 100", m.lineCols())
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	s := testSettings()
	s.Theme = "neon"
	m := NewModel("song.wav", s)
	t.Cleanup(m.cancel)

	if m.theme != "default" || m.err == nil {
		t.Errorf("theme = %q, err = %v", m.theme, m.err)
	}
}
