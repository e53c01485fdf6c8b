package formatting_test

import (
	"testing"

	"github.com/JaimeStill/dossier/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "2048", 2048, false},
		{"kilobytes", "1KB", 1024, false},
		{"upload limit", "25MB", 25 * 1024 * 1024, false},
		{"lowercase", "10mb", 10 * 1024 * 1024, false},
		{"spaced", "100 MB", 100 * 1024 * 1024, false},
		{"padded", "  8MB  ", 8 * 1024 * 1024, false},
		{"empty", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"unit only", "MB", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"small pdf", 900, 0, "900 B"},
		{"one KB", 1024, 0, "1 KB"},
		{"scan", 1536 * 1024, 1, "1.5 MB"},
		{"clamped precision", 1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}
