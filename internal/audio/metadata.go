package audio

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Metadata is the subset of tags the practice view shows. BPM is 0 when
// the file carries no usable tempo tag.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	BPM    float64
	Format string
}

// ExtractMetadata reads ID3/MP4/FLAC/OGG tags from data.
func ExtractMetadata(data []byte) (*Metadata, error) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	meta := &Metadata{
		Title:  tryDecode(m.Title()),
		Artist: tryDecode(m.Artist()),
		Album:  tryDecode(m.Album()),
		Genre:  tryDecode(m.Genre()),
	}

	if raw := m.Raw(); raw != nil {
		for _, key := range []string{"TBPM", "TBP", "BPM", "bpm", "tmpo"} {
			if bpm := parseBPM(raw[key]); bpm > 0 {
				meta.BPM = bpm
				break
			}
		}
	}
	return meta, nil
}

func (m *Metadata) fillDefaults(path string) {
	if m.Title == "" {
		base := filepath.Base(path)
		m.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if m.Artist == "" {
		m.Artist = "Unknown Artist"
	}
}

// parseBPM accepts the string and integer shapes tag libraries hand back.
func parseBPM(v interface{}) float64 {
	switch t := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || f <= 0 {
			return 0
		}
		return f
	case int:
		return float64(t)
	case float64:
		return t
	}
	return 0
}

// legacyEncodings are tried in order on tag text that is not readable as is.
var legacyEncodings = []encoding.Encoding{
	charmap.Windows1251,
	charmap.Windows1252,
	charmap.KOI8R,
	japanese.ShiftJIS,
	unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
}

func tryDecode(text string) string {
	if text == "" {
		return ""
	}
	if isReadable(text) {
		return text
	}

	for _, enc := range legacyEncodings {
		decoded, err := enc.NewDecoder().String(text)
		if err == nil && isReadable(decoded) {
			return decoded
		}
	}

	return cleanString(text)
}

func readableRune(r rune) bool {
	return r >= 32 && r < 127 ||
		r >= 0xA0 && r <= 0x24F ||
		r >= 0x400 && r <= 0x4FF ||
		r >= 0x3040 && r <= 0x30FF ||
		r >= 0x4E00 && r <= 0x9FFF
}

// isReadable checks that most of s is printable in the scripts we expect.
func isReadable(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	readable := 0
	for _, r := range runes {
		if readableRune(r) {
			readable++
		}
	}
	return float64(readable)/float64(len(runes)) > 0.5
}

func cleanString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if readableRune(r) {
			result.WriteRune(r)
		} else {
			result.WriteRune('?')
		}
	}
	return result.String()
}
