package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"musicality/pkg/viz"
	"musicality/pkg/waveform"
)

var boundsChunk int

var boundsCmd = &cobra.Command{
	Use:   "bounds FILE",
	Short: "Print the time and sample window of each line",
	Long: `Print the window of every line of FILE, or of one line with --chunk. The
pre-song line is listed first when the offset creates one.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAudioFiles,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		_, sess, err := loadSession(ctx, args[0])
		if err != nil {
			return err
		}
		cfg := sess.WaveformConfig(defaultPathWidth, defaultPathHeight)
		if err := cfg.Validate(); err != nil {
			return err
		}

		var indexes []int
		if cmd.Flags().Changed("chunk") {
			if indexes, err = chunkRange(cfg, boundsChunk, 1); err != nil {
				return err
			}
		} else {
			if waveform.HasPreSong(cfg) {
				indexes = append(indexes, waveform.PreSongChunk)
			}
			for i := 0; i < waveform.ChunkCount(cfg); i++ {
				indexes = append(indexes, i)
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHUNK\tSTART\tEND\tSTART SAMPLE\tEND SAMPLE")
		for _, idx := range indexes {
			b := waveform.ComputeBounds(idx, cfg)
			name := fmt.Sprint(idx)
			if idx == waveform.PreSongChunk {
				name = "pre"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", name,
				viz.FormatMs(b.StartTimeMs), viz.FormatMs(b.EndTimeMs), b.StartSample, b.EndSample)
		}
		return w.Flush()
	},
}

func init() {
	boundsCmd.Flags().IntVar(&boundsChunk, "chunk", 0, "only this line, -1 for the pre-song line")
	rootCmd.AddCommand(boundsCmd)
}
