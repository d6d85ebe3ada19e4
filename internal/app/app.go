package app

import (
	"fmt"

	"musicality/internal/config"
	"musicality/internal/ui"
	"musicality/pkg/utils"
)

type App struct {
	ui *ui.TUI
}

// New prepares the interactive viewer for path.
func New(path string, settings config.Settings) (*App, error) {
	path = utils.ExpandHome(path)
	if !utils.IsAudioFile(path) {
		return nil, fmt.Errorf("not a supported audio file: %s", path)
	}
	return &App{
		ui: ui.New(path, settings),
	}, nil
}

func (a *App) Run() error {
	return a.ui.Start()
}
