package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{formatSVG, formatPNG, formatDOT} {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) = %v", f, err)
		}
	}
	if err := validateFormat("pdf"); err == nil {
		t.Error("validateFormat(pdf) should fail")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		want   string
	}{
		{"Explicit", "out.svg", "machine.toml", "svg", "out.svg"},
		{"DerivedSVG", "", "machine.toml", "svg", "machine.svg"},
		{"DerivedDOT", "", "lamp.toml", "dot", "lamp.dot"},
		{"NoExtension", "", "machine", "png", "machine.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteDiagramDOT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dot")
	dotText := "digraph \"matter\" {\n}\n"

	if err := writeDiagram(context.Background(), dotText, path, formatDOT); err != nil {
		t.Fatalf("writeDiagram: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("output = %q, want DOT text", data)
	}
}
