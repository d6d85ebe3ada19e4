package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"musicality/internal/config"
	"musicality/internal/logging"
)

// settings starts from the environment; flags override it.
var settings = config.Load()

var (
	widthFlag  int
	heightFlag int
)

var rootCmd = &cobra.Command{
	Use:   "musicality",
	Short: "Practice along an audio track laid out on a beat grid",
	Long: `musicality shows an audio track as lines of a fixed number of beats.

Each line is one chunk of the song, aligned to the beat grid by a tempo and a
millisecond offset. Scroll the lines, shift the grid, change tempo and zoom,
and drop annotations with the mouse.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !settings.Debug {
			return nil
		}
		dir, err := logging.DefaultDir()
		if err != nil {
			return err
		}
		path, err := logging.Enable(dir)
		if err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		logging.Debugf("musicality %s: logging to %s", cmd.Name(), path)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&settings.BPM, "bpm", settings.BPM, "tempo in beats per minute (0 reads the file's tags)")
	pf.IntVar(&settings.BeatsPerLine, "beats-per-line", settings.BeatsPerLine, "beats shown on one line")
	pf.Float64Var(&settings.OffsetMs, "offset", settings.OffsetMs, "beat grid offset in milliseconds")
	pf.StringVar(&settings.RectsPerBeat, "rects", settings.RectsPerBeat, `bars per beat, "auto" or a count`)
	pf.StringVar(&settings.Theme, "theme", settings.Theme, "color scheme")
	pf.BoolVar(&settings.Debug, "debug", settings.Debug, "write a debug log under ~/.musicality/logs")
	pf.IntVar(&widthFlag, "width", 0, "line width (cells for render, pixels for path; 0 picks a default)")
	pf.IntVar(&heightFlag, "height", 0, "line height (rows for render, pixels for path; 0 picks a default)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
