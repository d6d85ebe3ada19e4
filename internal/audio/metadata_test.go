package audio

import "testing"

func TestParseBPM(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{"128", 128},
		{" 92.5 ", 92.5},
		{"fast", 0},
		{"-4", 0},
		{140, 140},
		{float64(87), 87},
		{nil, 0},
		{[]byte("120"), 0},
	}
	for _, tt := range tests {
		if got := parseBPM(tt.in); got != tt.want {
			t.Errorf("parseBPM(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTryDecodeKeepsReadableText(t *testing.T) {
	for _, s := range []string{"Blue in Green", "Кино", "Björk", ""} {
		if got := tryDecode(s); got != s {
			t.Errorf("tryDecode(%q) = %q", s, got)
		}
	}
}

func TestCleanString(t *testing.T) {
	if got := cleanString("ok\x01\x02"); got != "ok??" {
		t.Errorf("cleanString = %q, want %q", got, "ok??")
	}
}

func TestFillDefaults(t *testing.T) {
	m := &Metadata{}
	m.fillDefaults("/music/take five.mp3")
	if m.Title != "take five" || m.Artist != "Unknown Artist" {
		t.Errorf("fillDefaults = %+v", m)
	}

	m = &Metadata{Title: "Kept", Artist: "Also Kept"}
	m.fillDefaults("/music/other.mp3")
	if m.Title != "Kept" || m.Artist != "Also Kept" {
		t.Errorf("fillDefaults overwrote tags: %+v", m)
	}
}

func TestExtractMetadataWithoutTags(t *testing.T) {
	if _, err := ExtractMetadata([]byte("no tags here")); err == nil {
		t.Error("ExtractMetadata on untagged data returned nil error")
	}
}
