package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"musicality/internal/audio"
	"musicality/internal/session"
	"musicality/pkg/utils"
)

// loadSession decodes path and builds a session from the current settings.
func loadSession(ctx context.Context, path string) (*audio.Peaks, *session.Session, error) {
	path = utils.ExpandHome(path)
	if !utils.IsAudioFile(path) {
		return nil, nil, fmt.Errorf("not a supported audio file: %s", path)
	}

	peaks, err := audio.LoadPeaks(ctx, path, nil)
	if err != nil {
		return nil, nil, err
	}

	opts, err := settings.SessionOptions(peaks.TagBPM())
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.New(peaks.Track(), opts)
	if err != nil {
		return nil, nil, err
	}
	return peaks, sess, nil
}

// completeAudioFiles offers audio files and directories for the file
// argument.
func completeAudioFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return utils.GetCompletions(toComplete), cobra.ShellCompDirectiveNoSpace
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
