package cmd

import (
	"github.com/spf13/cobra"

	"musicality/internal/app"
)

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Open the interactive viewer",
	Long: `Open FILE in the interactive viewer.

Keys: arrows or hjkl to scroll and step, [ ] and { } to shift the grid,
< > to change tempo, + - to zoom, r to cycle bars per beat, : for commands,
? for help. Click to move the playhead, right-click to annotate, drag an
annotation to move it.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAudioFiles,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(args[0], settings)
		if err != nil {
			return err
		}
		return a.Run()
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
