package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"musicality/pkg/waveform"
)

const (
	defaultPathWidth  = 800
	defaultPathHeight = 100
)

var (
	pathChunk  int
	pathPoints int
)

var pathCmd = &cobra.Command{
	Use:   "path FILE",
	Short: "Print the smoothed SVG path of one line",
	Long: `Print the SVG path data (M, Q and L commands) of one chunk of FILE, sized
--width by --height pixels.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAudioFiles,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		peaks, sess, err := loadSession(ctx, args[0])
		if err != nil {
			return err
		}
		width := float64(orDefault(widthFlag, defaultPathWidth))
		height := float64(orDefault(heightFlag, defaultPathHeight))
		cfg := sess.WaveformConfig(width, height)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := chunkRange(cfg, pathChunk, 1); err != nil {
			return err
		}

		bounds := waveform.ComputeBounds(pathChunk, cfg)
		fmt.Fprintln(cmd.OutOrStdout(), waveform.GenerateSmoothPath(peaks.Data, bounds, width, height, pathPoints))
		return nil
	},
}

func init() {
	pathCmd.Flags().IntVar(&pathChunk, "chunk", 0, "line to draw, -1 for the pre-song line")
	pathCmd.Flags().IntVar(&pathPoints, "points", waveform.DefaultPathPoints, "number of path points")
	rootCmd.AddCommand(pathCmd)
}
