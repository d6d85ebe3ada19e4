package ui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"musicality/pkg/utils"
	"musicality/pkg/viz"
)

// CompletionType determines which category of completions we're handling.
type CompletionType int

const (
	CompletionNone CompletionType = iota
	CompletionCommand
	CompletionArgument
	CompletionFile
)

// TabState holds the completions in progress and which one is shown.
type TabState struct {
	Completions  []string
	CurrentIndex int
	Command      string
	Partial      string
	Type         CompletionType
}

// argumentCompletions lists the fixed argument values of a command.
func argumentCompletions(command string) []string {
	switch command {
	case "theme":
		return viz.SchemeNames()
	case "rects":
		return []string{"auto", "1", "2", "4", "8"}
	case "zoom":
		return []string{"in", "out"}
	case "scroll":
		return []string{"bottom", "down", "pgdown", "pgup", "top", "up"}
	}
	return nil
}

// completionsFor returns the candidates for input and what they complete.
func completionsFor(input string) ([]string, CompletionType, string) {
	parts := strings.SplitN(input, " ", 2)
	if len(parts) == 1 {
		var out []string
		partial := strings.ToLower(parts[0])
		for _, c := range commands {
			if strings.HasPrefix(c.Name, partial) {
				out = append(out, c.Name)
			}
		}
		sort.Strings(out)
		return out, CompletionCommand, ""
	}

	c, ok := lookupCommand(parts[0])
	if !ok {
		return nil, CompletionNone, ""
	}
	partial := strings.Trim(strings.TrimLeft(parts[1], " "), `"'`)

	if c.Name == "open" {
		return utils.GetCompletions(partial), CompletionFile, c.Name
	}

	var out []string
	for _, v := range argumentCompletions(c.Name) {
		if strings.HasPrefix(v, strings.ToLower(partial)) {
			out = append(out, v)
		}
	}
	return out, CompletionArgument, c.Name
}

// handleTabCompletion completes the command line, cycling on repeat.
func (m *Model) handleTabCompletion() {
	if m.tabState != nil && len(m.tabState.Completions) > 1 {
		m.tabState.CurrentIndex = (m.tabState.CurrentIndex + 1) % len(m.tabState.Completions)
		m.applyCompletion()
		return
	}

	completions, typ, command := completionsFor(m.input.Value())
	if len(completions) == 0 {
		m.clearTabCompletion()
		return
	}
	m.tabState = &TabState{
		Completions: completions,
		Command:     command,
		Type:        typ,
	}
	m.applyCompletion()
	if len(completions) == 1 && typ != CompletionFile {
		m.tabState = nil
	}
}

func (m *Model) applyCompletion() {
	current := m.tabState.Completions[m.tabState.CurrentIndex]
	switch m.tabState.Type {
	case CompletionCommand:
		m.input.SetValue(current + " ")
	case CompletionFile:
		if strings.Contains(current, " ") {
			current = `"` + current + `"`
		}
		m.input.SetValue(m.tabState.Command + " " + current)
	default:
		m.input.SetValue(m.tabState.Command + " " + current)
	}
	m.input.CursorEnd()
	m.tabOutput = formatCompletions(m.tabState, m.width)
}

// formatCompletions renders the candidates on one line, the current one
// bracketed, cut to width.
func formatCompletions(ts *TabState, width int) string {
	if ts == nil || len(ts.Completions) < 2 {
		return ""
	}

	var sb strings.Builder
	for i, c := range ts.Completions {
		name := c
		if ts.Type == CompletionFile {
			name = filepath.Base(c)
			if strings.HasSuffix(c, string(os.PathSeparator)) {
				name += "/"
			}
		}
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == ts.CurrentIndex {
			name = "[" + name + "]"
		}
		sb.WriteString(name)
	}

	out := []rune(sb.String())
	if width > 1 && len(out) > width {
		out = append(out[:width-1], '…')
	}
	return string(out)
}

func (m *Model) clearTabCompletion() {
	m.tabState = nil
	m.tabOutput = ""
}
