package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"musicality/internal/audio"
	"musicality/internal/config"
	"musicality/internal/logging"
	"musicality/internal/session"
	"musicality/internal/types"
	"musicality/pkg/viz"
	"musicality/pkg/waveform"
)

type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeLabel
)

// Layout, in terminal cells.
const (
	labelWidth  = viz.GutterWidth
	rowsPerLine = 4
	slotRows    = rowsPerLine + 1 // waveform rows plus the marker row
	headerRows  = 2
	footerRows  = 3
)

type (
	peaksMsg struct {
		path  string
		peaks *audio.Peaks
		err   error
	}
	progressMsg    float64
	precomputedMsg struct{ err error }
)

type Model struct {
	path     string
	settings config.Settings

	peaks    *audio.Peaks
	sess     *session.Session
	manager  *viz.Manager
	renderer *viz.Renderer
	theme    string

	input    textinput.Model
	viewport viewport.Model
	progress progress.Model
	spinner  spinner.Model
	loading  *types.LoadingState
	progCh   chan float64
	cancel   context.CancelFunc
	pending  tea.Cmd

	loadingPath string // most recent load request

	ready    bool
	width    int
	height   int
	mode     InputMode
	showHelp bool
	status   string
	err      error

	top      int // first visible entry of lineIndexes()
	selected int // annotation index, -1 for none
	dragging bool
	labelAt  float64

	history    []string
	historyPos int
	tabState   *TabState
	tabOutput  string
	shortcuts  map[string]string
}

// NewModel prepares a model that loads path on Init.
func NewModel(path string, settings config.Settings) Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 256
	input.Width = 80

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	scheme, err := viz.SchemeByName(settings.Theme)
	theme := settings.Theme
	if err != nil {
		scheme, theme = viz.DefaultColorScheme(), "default"
	}

	m := Model{
		path:       path,
		settings:   settings,
		renderer:   viz.NewRenderer(scheme),
		theme:      theme,
		input:      input,
		progress:   p,
		spinner:    s,
		loading:    &types.LoadingState{},
		selected:   -1,
		historyPos: -1,
		shortcuts:  defaultShortcuts(),
		err:        err,
	}
	m.pending = m.startLoad(path)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.pending)
}

// startLoad decodes path in the background, streaming progress.
func (m *Model) startLoad(path string) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.progCh = make(chan float64, 16)
	m.loadingPath = path
	m.loading.Start(fmt.Sprintf("Loading %s...", filepath.Base(path)), time.Now())

	ch := m.progCh
	load := func() tea.Msg {
		defer close(ch)
		peaks, err := audio.LoadPeaks(ctx, path, func(f float64) {
			select {
			case ch <- f:
			default:
			}
		})
		return peaksMsg{path: path, peaks: peaks, err: err}
	}
	return tea.Batch(load, waitForProgress(ch), m.spinner.Tick)
}

func waitForProgress(ch <-chan float64) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(f)
	}
}

// attach builds the session for freshly decoded peaks.
func (m *Model) attach(path string, peaks *audio.Peaks) error {
	opts, err := m.settings.SessionOptions(peaks.TagBPM())
	if err != nil {
		return err
	}
	sess, err := session.New(peaks.Track(), opts)
	if err != nil {
		return err
	}

	m.path = path
	m.peaks = peaks
	m.sess = sess
	m.manager = viz.NewManager(peaks.Data)
	m.top = 0
	m.selected = -1
	m.dragging = false
	logging.Debugf("session: %s at %.2f BPM, %d beats per line", filepath.Base(path), sess.BPM(), sess.BeatsPerLine())
	return nil
}

// lineCols is the waveform width of a line in cells.
func (m Model) lineCols() int {
	return max(1, m.width-labelWidth)
}

func (m Model) visibleSlots() int {
	return max(1, (m.height-headerRows-footerRows)/slotRows)
}

func (m Model) waveformConfig() waveform.Config {
	return m.sess.WaveformConfig(float64(m.lineCols()), viz.PixelHeight(rowsPerLine))
}

// lineIndexes lists every chunk to draw, the pre-song chunk first.
func (m Model) lineIndexes() []int {
	cfg := m.waveformConfig()
	n := waveform.ChunkCount(cfg)
	idx := make([]int, 0, n+1)
	if waveform.HasPreSong(cfg) {
		idx = append(idx, waveform.PreSongChunk)
	}
	for i := 0; i < n; i++ {
		idx = append(idx, i)
	}
	return idx
}

func (m Model) request(index int) viz.LineRequest {
	cfg := m.waveformConfig()
	return viz.LineRequest{
		Index:         index,
		Config:        cfg,
		TargetBars:    m.sess.TargetBars(cfg.Width),
		BeatsPerChunk: m.sess.BeatsPerLine(),
	}
}

// precompute warms the cache for the visible lines and one page beyond.
func (m Model) precompute() tea.Cmd {
	if m.manager == nil || !m.ready {
		return nil
	}
	if err := m.waveformConfig().Validate(); err != nil {
		return nil
	}
	idx := m.lineIndexes()
	end := min(len(idx), m.top+2*m.visibleSlots())
	reqs := make([]viz.LineRequest, 0, end-m.top)
	for _, i := range idx[min(m.top, end):end] {
		reqs = append(reqs, m.request(i))
	}

	manager := m.manager
	return func() tea.Msg {
		return precomputedMsg{err: manager.Precompute(context.Background(), reqs)}
	}
}

// slotOf returns the position in lineIndexes() of the line holding ms.
func (m Model) slotOf(ms float64) int {
	chunk := waveform.ChunkAt(ms, m.waveformConfig())
	for i, idx := range m.lineIndexes() {
		if idx == chunk {
			return i
		}
	}
	return 0
}

// follow scrolls so the slot holding ms is visible.
func (m *Model) follow(ms float64) {
	slot := m.slotOf(ms)
	if slot < m.top {
		m.top = slot
	} else if slot >= m.top+m.visibleSlots() {
		m.top = slot - m.visibleSlots() + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	if m.sess == nil {
		m.top = 0
		return
	}
	last := len(m.lineIndexes()) - m.visibleSlots()
	m.top = max(0, min(m.top, last))
}

func (m *Model) scroll(delta int) {
	m.top += delta
	m.clampScroll()
}

// hit maps a screen cell to a chunk and a time inside it.
func (m Model) hit(x, y int) (chunk int, timeMs float64, ok bool) {
	if m.sess == nil || x < labelWidth || y < headerRows {
		return 0, 0, false
	}
	slot := (y - headerRows) / slotRows
	if slot >= m.visibleSlots() {
		return 0, 0, false
	}
	idx := m.lineIndexes()
	if m.top+slot >= len(idx) {
		return 0, 0, false
	}
	chunk = idx[m.top+slot]
	cols := float64(m.lineCols())
	bounds := waveform.ComputeBounds(chunk, m.waveformConfig())
	col := float64(x-labelWidth) + 0.5
	return chunk, waveform.PixelToTime(min(col, cols), bounds, cols), true
}

// cellMs is the duration covered by one column.
func (m Model) cellMs() float64 {
	return m.sess.ChunkDuration() * 1000 / float64(m.lineCols())
}
