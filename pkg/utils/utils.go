package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AudioExtensions are the formats the peak extractor can decode.
var AudioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
}

// Magic numbers for the supported formats
var MagicNumbers = map[string][][]byte{
	".mp3": {
		{0x49, 0x44, 0x33}, // ID3
		{0xFF, 0xFB},       // MPEG-1 Layer III frame sync
		{0xFF, 0xF3},
		{0xFF, 0xF2},
	},
	".wav": {
		{0x52, 0x49, 0x46, 0x46}, // RIFF
	},
}

// HasAudioExtension reports whether path names a supported format.
func HasAudioExtension(path string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsAudioFile checks the extension and then the file header.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !AudioExtensions[ext] {
		return false
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 4)
	n, err := file.Read(header)
	if err != nil {
		return false
	}
	header = header[:n]

	for _, magic := range MagicNumbers[ext] {
		if bytes.HasPrefix(header, magic) {
			return true
		}
	}
	return false
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return strings.Replace(path, "~", home, 1)
}

// GetCompletions lists directories and audio files starting with
// partialPath, sorted. Directories carry a trailing separator.
func GetCompletions(partialPath string) []string {
	partialPath = ExpandHome(partialPath)

	dir, prefix := filepath.Split(partialPath)
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var completions []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if dir == "." && !strings.HasPrefix(partialPath, ".") {
			fullPath = name
		}

		if entry.IsDir() {
			completions = append(completions, fullPath+string(os.PathSeparator))
			continue
		}
		if HasAudioExtension(name) {
			completions = append(completions, fullPath)
		}
	}

	sort.Strings(completions)
	return completions
}
