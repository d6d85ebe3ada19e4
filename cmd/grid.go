package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"musicality/pkg/waveform"
)

var gridBeats int

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the beat grid lines of one line",
	Long: `Print the x position and type of each beat grid line for a line of
--beats beats drawn --width pixels wide. Every fourth beat is a quarter line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		beats := gridBeats
		if !cmd.Flags().Changed("beats") {
			beats = settings.BeatsPerLine
		}
		width := float64(orDefault(widthFlag, defaultPathWidth))

		out := cmd.OutOrStdout()
		for _, line := range waveform.GenerateGrid(beats, width) {
			fmt.Fprintf(out, "%g\t%s\n", line.X, line.Type)
		}
		return nil
	},
}

func init() {
	gridCmd.Flags().IntVar(&gridBeats, "beats", 8, "beats per line (defaults to --beats-per-line)")
	rootCmd.AddCommand(gridCmd)
}
