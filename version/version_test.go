package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatFull(t *testing.T) {
	testCases := []struct {
		name string
		info Info
		want string
	}{
		{"no commit", Info{Version: "v1.2.0", Commit: "unknown", Date: "unknown"}, "v1.2.0"},
		{"short commit", Info{Version: "v1.2.0", Commit: "abc", Date: "unknown"}, "v1.2.0"},
		{"commit only", Info{Version: "v1.2.0", Commit: "0123456789ab", Date: "unknown"}, "v1.2.0 (0123456)"},
		{"commit and date", Info{Version: "v1.2.0", Commit: "0123456789ab", Date: "2026-01-02"}, "v1.2.0 (0123456, built 2026-01-02)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatFull(tc.info); got != tc.want {
				t.Errorf("formatFull() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrintVersion(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	var buf bytes.Buffer
	if err := PrintVersion(&buf, "nbfs"); err != nil {
		t.Fatalf("PrintVersion() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "nbfs version v9.9.9") {
		t.Errorf("unexpected first line: %q", out)
	}
	if !strings.Contains(out, "Package: "+Package) {
		t.Errorf("missing package line: %q", out)
	}
}
