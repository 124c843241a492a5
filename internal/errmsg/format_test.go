package errmsg

import (
	"errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		err  error
		want string
	}{
		{"nil error", OpLibraryScan, nil, ""},
		{"scan failure", OpLibraryScan, errors.New("disk full"), "Failed to scan song library: disk full"},
		{"config failure", OpConfigLoad, errors.New("bad toml"), "Failed to load configuration: bad toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.op, tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("unknown song attribute")

	got := FormatWith(OpCatalogQuery, "tempo", err)
	want := "Failed to list categories 'tempo': unknown song attribute"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}

	if got := FormatWith(OpCatalogQuery, "", err); got != Format(OpCatalogQuery, err) {
		t.Errorf("empty context should match Format, got %q", got)
	}
	if got := FormatWith(OpCatalogQuery, "tempo", nil); got != "" {
		t.Errorf("nil error should format empty, got %q", got)
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{OpConfigLoad, OpLibraryOpen, OpLibraryLoad, OpLibraryScan, OpCacheBuild, OpCatalogQuery, OpParseArgs}
	for _, op := range ops {
		if op == "" || strings.HasPrefix(string(op), "Failed") {
			t.Errorf("op %q should be a bare verb phrase", op)
		}
	}
}
