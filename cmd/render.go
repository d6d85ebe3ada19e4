package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"musicality/internal/session"
	"musicality/pkg/viz"
	"musicality/pkg/waveform"
)

const (
	defaultCols = 80
	defaultRows = 4
)

var (
	renderChunk int
	renderCount int
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Print the lines of a track",
	Long: `Print the lines of FILE to stdout, one waveform line per chunk, at the
terminal width. Colors are dropped when stdout is not a terminal.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAudioFiles,
	RunE:              runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderChunk, "chunk", 0, "first line to print, -1 for the pre-song line")
	renderCmd.Flags().IntVar(&renderCount, "count", 0, "number of lines to print, 0 for all")
	rootCmd.AddCommand(renderCmd)
}

// terminalWidth is the width of stdout, or defaultCols when it is not a
// terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultCols
	}
	return w
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	peaks, sess, err := loadSession(ctx, args[0])
	if err != nil {
		return err
	}

	cols := orDefault(widthFlag, terminalWidth()) - viz.GutterWidth
	rows := orDefault(heightFlag, defaultRows)
	if cols < 1 {
		return fmt.Errorf("width must exceed the %d column gutter", viz.GutterWidth)
	}

	cfg := sess.WaveformConfig(float64(cols), viz.PixelHeight(rows))
	if err := cfg.Validate(); err != nil {
		return err
	}

	indexes, err := chunkRange(cfg, renderChunk, renderCount)
	if err != nil {
		return err
	}

	reqs := make([]viz.LineRequest, len(indexes))
	for i, idx := range indexes {
		reqs[i] = viz.LineRequest{
			Index:         idx,
			Config:        cfg,
			TargetBars:    sess.TargetBars(cfg.Width),
			BeatsPerChunk: sess.BeatsPerLine(),
		}
	}

	manager := viz.NewManager(peaks.Data)
	if err := manager.Precompute(ctx, reqs); err != nil {
		return err
	}

	scheme, err := viz.SchemeByName(settings.Theme)
	if err != nil {
		return err
	}
	renderer := viz.NewRenderer(scheme)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, describeSession(sess))

	gutter := lipgloss.NewStyle().Foreground(scheme.Text).Width(viz.GutterWidth)
	blank := strings.Repeat(" ", viz.GutterWidth)
	for _, req := range reqs {
		line := manager.Line(req)
		for i, row := range strings.Split(renderer.Render(line, cols, rows, viz.Overlay{}), "\n") {
			prefix := blank
			if i == 0 {
				prefix = gutter.Render(viz.LineLabel(line))
			}
			fmt.Fprintln(out, prefix+row)
		}
	}
	return nil
}

func describeSession(s *session.Session) string {
	t := s.Track()
	return fmt.Sprintf("%s - %s | %.2f BPM | %d beats per line | offset %+.0f ms | rects %s",
		t.Artist, t.Title, s.BPM(), s.BeatsPerLine(), s.OffsetMs(), s.RectsPerBeat())
}

// chunkRange lists count chunk indexes starting at first, all remaining
// ones when count is 0.
func chunkRange(cfg waveform.Config, first, count int) ([]int, error) {
	n := waveform.ChunkCount(cfg)
	switch {
	case first < waveform.PreSongChunk:
		return nil, fmt.Errorf("invalid chunk %d", first)
	case first == waveform.PreSongChunk && !waveform.HasPreSong(cfg):
		return nil, fmt.Errorf("no pre-song line at offset %+.0f ms", cfg.BeatOffset)
	case first >= n:
		return nil, fmt.Errorf("chunk %d past the last line (%d)", first, n-1)
	case count < 0:
		return nil, fmt.Errorf("invalid count %d", count)
	}

	last := n - 1
	if count > 0 {
		last = min(last, first+count-1)
	}
	indexes := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		indexes = append(indexes, i)
	}
	return indexes, nil
}
