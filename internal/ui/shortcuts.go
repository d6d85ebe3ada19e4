package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultShortcuts maps normal-mode keys to command lines.
func defaultShortcuts() map[string]string {
	return map[string]string{
		"up":     "scroll up",
		"k":      "scroll up",
		"down":   "scroll down",
		"j":      "scroll down",
		"pgup":   "scroll pgup",
		"pgdown": "scroll pgdown",
		"home":   "scroll top",
		"end":    "scroll bottom",
		"left":   "step -1",
		"h":      "step -1",
		"right":  "step +1",
		"l":      "step +1",
		"[":      "offset -10",
		"]":      "offset +10",
		"{":      "offset -1",
		"}":      "offset +1",
		"<":      "bpm -1",
		">":      "bpm +1",
		"+":      "zoom in",
		"=":      "zoom in",
		"-":      "zoom out",
		"r":      "rects",
		"t":      "theme",
		"n":      "next",
		"N":      "prev",
		"x":      "unmark",
		"delete": "unmark",
		"?":      "help",
		"q":      "quit",
		"ctrl+q": "quit",
	}
}

func (m *Model) handleShortcut(key string) (string, tea.Cmd, error) {
	if command, ok := m.shortcuts[key]; ok {
		return m.execute(command)
	}
	return "", nil, nil
}

// helpText lists the shortcuts and the command line reference.
func helpText(shortcuts map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Keyboard Shortcuts:\n\n")

	keys := make([]string, 0, len(shortcuts))
	for k := range shortcuts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", k, shortcuts[k]))
	}
	sb.WriteString("  a          annotate at the playhead\n")
	sb.WriteString("  :          command line\n")

	sb.WriteString("\nMouse:\n\n")
	sb.WriteString("  click        move the playhead, select an annotation\n")
	sb.WriteString("  drag         move the selected annotation\n")
	sb.WriteString("  right click  annotate at the pointer\n")
	sb.WriteString("  wheel        scroll\n")

	sb.WriteString("\nCommands:\n\n")
	for _, c := range commands {
		sb.WriteString(fmt.Sprintf("  %-40s %s\n", c.Usage, c.Description))
	}
	return sb.String()
}
