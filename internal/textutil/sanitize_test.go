package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Final Fantasy VII (Disc 1)", "Final Fantasy VII (Disc 1)"},
		{"  Crash: Warped  ", "Crash- Warped"},
		{"AC/DC\\Live", "AC-DC-Live"},
		{"say \"hi\"?", "say hi"},
		{"tab\there", "tabhere"},
		{"trailing...", "trailing"},
		{"   ", ""},
		{"<|>", ""},
		{"ファイナルファンタジー", "ファイナルファンタジー"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeStem(t *testing.T) {
	if got := SanitizeStem("???", "image"); got != "image" {
		t.Fatalf("SanitizeStem fallback = %q", got)
	}
	if got := SanitizeStem("Game", "image"); got != "Game" {
		t.Fatalf("SanitizeStem = %q", got)
	}
}
