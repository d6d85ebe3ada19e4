package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"musicality/pkg/utils"
	"musicality/pkg/viz"
	"musicality/pkg/waveform"
)

// Command is an entry of the ":" command line.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	NeedsTrack  bool
	Handler     func(*Model, []string) (string, tea.Cmd, error)
}

var commands []Command

func init() {
	commands = []Command{
		{Name: "bpm", Usage: "bpm <n|+n|-n>", Description: "Set or shift the tempo", NeedsTrack: true, Handler: cmdBPM},
		{Name: "beats", Aliases: []string{"b"}, Usage: "beats <n>", Description: "Beats per line", NeedsTrack: true, Handler: cmdBeats},
		{Name: "offset", Aliases: []string{"o"}, Usage: "offset <ms|+ms|-ms>", Description: "Beat offset in milliseconds", NeedsTrack: true, Handler: cmdOffset},
		{Name: "rects", Usage: "rects <auto|n>", Description: "Bars per beat", NeedsTrack: true, Handler: cmdRects},
		{Name: "zoom", Aliases: []string{"z"}, Usage: "zoom <in|out>", Description: "Halve or double the line length", NeedsTrack: true, Handler: cmdZoom},
		{Name: "goto", Aliases: []string{"g"}, Usage: "goto <mm:ss.mmm|seconds>", Description: "Move the playhead", NeedsTrack: true, Handler: cmdGoto},
		{Name: "step", Usage: "step <+beats|-beats>", Description: "Move the playhead by beats", NeedsTrack: true, Handler: cmdStep},
		{Name: "mark", Aliases: []string{"m"}, Usage: "mark [label]", Description: "Annotate at the playhead", NeedsTrack: true, Handler: cmdMark},
		{Name: "unmark", Usage: "unmark", Description: "Remove the selected annotation", NeedsTrack: true, Handler: cmdUnmark},
		{Name: "next", Usage: "next", Description: "Select the next annotation", NeedsTrack: true, Handler: cmdNext},
		{Name: "prev", Usage: "prev", Description: "Select the previous annotation", NeedsTrack: true, Handler: cmdPrev},
		{Name: "marks", Usage: "marks", Description: "List annotations", NeedsTrack: true, Handler: cmdMarks},
		{Name: "scroll", Usage: "scroll <up|down|pgup|pgdown|top|bottom>", Description: "Scroll lines", NeedsTrack: true, Handler: cmdScroll},
		{Name: "theme", Aliases: []string{"t"}, Usage: "theme [name]", Description: "Change or cycle the color scheme", Handler: cmdTheme},
		{Name: "open", Aliases: []string{"load", "l"}, Usage: "open <file>", Description: "Load another audio file", Handler: cmdOpen},
		{Name: "help", Aliases: []string{"h", "?"}, Usage: "help", Description: "Toggle help", Handler: cmdHelp},
		{Name: "quit", Aliases: []string{"q", "exit"}, Usage: "quit", Description: "Exit", Handler: cmdQuit},
	}
}

func lookupCommand(name string) (Command, bool) {
	name = strings.ToLower(name)
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, true
			}
		}
	}
	return Command{}, false
}

// splitCommand separates the command name from its arguments. Quoted
// arguments keep their spaces.
func splitCommand(line string) (string, []string) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		started bool
	)
	for _, r := range strings.TrimSpace(line) {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
			started = true
		case quote == 0 && r == ' ':
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return "", nil
	}
	return strings.ToLower(args[0]), args[1:]
}

// parseRelative reads "n" as an absolute value and "+n"/"-n" as a delta
// from current when relative is allowed.
func parseRelative(arg string, current float64) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		return current + v, nil
	}
	return v, nil
}

// execute runs one command line against the model.
func (m *Model) execute(line string) (string, tea.Cmd, error) {
	name, args := splitCommand(line)
	if name == "" {
		return "", nil, nil
	}
	c, ok := lookupCommand(name)
	if !ok {
		return "", nil, fmt.Errorf("unknown command %q (type 'help')", name)
	}
	if c.NeedsTrack && m.sess == nil {
		return "", nil, fmt.Errorf("%s: no track loaded", c.Name)
	}
	return c.Handler(m, args)
}

func needArg(args []string, usage string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func cmdBPM(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "bpm <n|+n|-n>"); err != nil {
		return "", nil, err
	}
	bpm, err := parseRelative(args[0], m.sess.BPM())
	if err != nil {
		return "", nil, err
	}
	m.sess.SetBPM(bpm)
	m.clampScroll()
	return fmt.Sprintf("Tempo %.2f BPM", m.sess.BPM()), m.precompute(), nil
}

func cmdBeats(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "beats <n>"); err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("invalid beat count %q", args[0])
	}
	m.sess.SetBeatsPerLine(n)
	m.follow(m.sess.PositionMs())
	return fmt.Sprintf("%d beats per line", m.sess.BeatsPerLine()), m.precompute(), nil
}

func cmdOffset(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "offset <ms|+ms|-ms>"); err != nil {
		return "", nil, err
	}
	ms, err := parseRelative(args[0], m.sess.OffsetMs())
	if err != nil {
		return "", nil, err
	}
	m.sess.SetOffset(ms)
	m.clampScroll()
	return fmt.Sprintf("Offset %+.0f ms", m.sess.OffsetMs()), m.precompute(), nil
}

func cmdRects(m *Model, args []string) (string, tea.Cmd, error) {
	if len(args) == 0 {
		m.sess.CycleRects()
	} else {
		r, err := waveform.ParseRectsPerBeat(args[0])
		if err != nil {
			return "", nil, err
		}
		m.sess.SetRectsPerBeat(r)
	}
	return fmt.Sprintf("Bars per beat: %s", m.sess.RectsPerBeat()), m.precompute(), nil
}

func cmdZoom(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "zoom <in|out>"); err != nil {
		return "", nil, err
	}
	switch strings.ToLower(args[0]) {
	case "in", "+":
		m.sess.ZoomIn()
	case "out", "-":
		m.sess.ZoomOut()
	default:
		return "", nil, fmt.Errorf("usage: zoom <in|out>")
	}
	m.follow(m.sess.PositionMs())
	return fmt.Sprintf("%d beats per line", m.sess.BeatsPerLine()), m.precompute(), nil
}

func cmdGoto(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "goto <mm:ss.mmm|seconds>"); err != nil {
		return "", nil, err
	}
	ms, err := viz.ParsePosition(args[0])
	if err != nil {
		return "", nil, err
	}
	m.sess.Seek(ms)
	m.follow(m.sess.PositionMs())
	return "At " + viz.FormatMs(m.sess.PositionMs()), m.precompute(), nil
}

func cmdStep(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "step <+beats|-beats>"); err != nil {
		return "", nil, err
	}
	beats, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid beat count %q", args[0])
	}
	m.sess.Seek(m.sess.PositionMs() + beats*m.sess.BeatDurationMs())
	m.follow(m.sess.PositionMs())
	return "At " + viz.FormatMs(m.sess.PositionMs()), m.precompute(), nil
}

func cmdMark(m *Model, args []string) (string, tea.Cmd, error) {
	label := strings.Join(args, " ")
	m.selected = m.sess.Annotate(m.sess.PositionMs(), label)
	return fmt.Sprintf("Marked %s", viz.FormatMs(m.sess.PositionMs())), nil, nil
}

func cmdUnmark(m *Model, args []string) (string, tea.Cmd, error) {
	if m.selected < 0 {
		return "", nil, fmt.Errorf("no annotation selected")
	}
	if err := m.sess.RemoveAnnotation(m.selected); err != nil {
		return "", nil, err
	}
	m.selected = -1
	return "Annotation removed", nil, nil
}

func cmdNext(m *Model, args []string) (string, tea.Cmd, error) {
	return m.jumpAnnotation(1)
}

func cmdPrev(m *Model, args []string) (string, tea.Cmd, error) {
	return m.jumpAnnotation(-1)
}

func (m *Model) jumpAnnotation(dir int) (string, tea.Cmd, error) {
	marks := m.sess.Annotations()
	if len(marks) == 0 {
		return "", nil, fmt.Errorf("no annotations")
	}
	pos := m.sess.PositionMs()
	target := -1
	if dir > 0 {
		target = sort.Search(len(marks), func(i int) bool { return marks[i].TimeMs > pos })
		if target == len(marks) {
			target = 0
		}
	} else {
		target = sort.Search(len(marks), func(i int) bool { return marks[i].TimeMs >= pos }) - 1
		if target < 0 {
			target = len(marks) - 1
		}
	}
	m.selected = target
	m.sess.Seek(marks[target].TimeMs)
	m.follow(m.sess.PositionMs())
	return describeMark(marks[target].TimeMs, marks[target].Label), m.precompute(), nil
}

func describeMark(ms float64, label string) string {
	if label == "" {
		return viz.FormatMs(ms)
	}
	return fmt.Sprintf("%s  %s", viz.FormatMs(ms), label)
}

func cmdMarks(m *Model, args []string) (string, tea.Cmd, error) {
	marks := m.sess.Annotations()
	if len(marks) == 0 {
		return "No annotations", nil, nil
	}
	parts := make([]string, len(marks))
	for i, a := range marks {
		parts[i] = describeMark(a.TimeMs, a.Label)
	}
	return strings.Join(parts, " | "), nil, nil
}

func cmdScroll(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "scroll <up|down|pgup|pgdown|top|bottom>"); err != nil {
		return "", nil, err
	}
	page := m.visibleSlots()
	switch strings.ToLower(args[0]) {
	case "up":
		m.scroll(-1)
	case "down":
		m.scroll(1)
	case "pgup":
		m.scroll(-page)
	case "pgdown":
		m.scroll(page)
	case "top":
		m.top = 0
	case "bottom":
		m.top = len(m.lineIndexes())
		m.clampScroll()
	default:
		return "", nil, fmt.Errorf("usage: scroll <up|down|pgup|pgdown|top|bottom>")
	}
	return "", m.precompute(), nil
}

func cmdTheme(m *Model, args []string) (string, tea.Cmd, error) {
	name := nextTheme(m.theme)
	if len(args) > 0 {
		name = strings.ToLower(args[0])
	}
	scheme, err := viz.SchemeByName(name)
	if err != nil {
		return "", nil, err
	}
	m.theme = name
	m.renderer.Scheme = scheme
	return "Theme " + name, nil, nil
}

func nextTheme(current string) string {
	names := viz.SchemeNames()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func cmdOpen(m *Model, args []string) (string, tea.Cmd, error) {
	if err := needArg(args, "open <file>"); err != nil {
		return "", nil, err
	}
	path := utils.ExpandHome(strings.Join(args, " "))
	if !utils.IsAudioFile(path) {
		return "", nil, fmt.Errorf("not a supported audio file: %s", path)
	}
	return "", m.startLoad(path), nil
}

func cmdHelp(m *Model, args []string) (string, tea.Cmd, error) {
	m.showHelp = !m.showHelp
	if m.showHelp {
		m.viewport.SetContent(helpText(m.shortcuts))
		m.viewport.GotoTop()
	}
	return "", nil, nil
}

func cmdQuit(m *Model, args []string) (string, tea.Cmd, error) {
	if m.cancel != nil {
		m.cancel()
	}
	return "", tea.Quit, nil
}
