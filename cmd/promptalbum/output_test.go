package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestFormatStatusNoColor(t *testing.T) {
	got := formatStatus("Unmatched", statusWarn, "3 photos", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Unmatched:", "[WARN] 3 photos")
	if got != want {
		t.Fatalf("formatStatus mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatStatusWithColor(t *testing.T) {
	got := formatStatus("Albums", statusOK, "2 created", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green wrapped line, got %q", got)
	}
}

func TestTableSpecRender(t *testing.T) {
	tests := []struct {
		name string
		spec tableSpec
		want []string
	}{
		{
			name: "pads short rows",
			spec: tableSpec{headers: []string{"Album", "Photos"}, rows: [][]string{{"2024-03-fests"}}, right: []int{1}},
			want: []string{"2024-03-fests", "PHOTOS"},
		},
		{
			name: "empty message",
			spec: tableSpec{headers: []string{"ID"}, empty: "No runs recorded"},
			want: []string{"No runs recorded"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.spec.render()
			for _, fragment := range tt.want {
				if !strings.Contains(out, fragment) {
					t.Fatalf("expected %q in:\n%s", fragment, out)
				}
			}
		})
	}
}

func TestPrinterSectionPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.section("Run abc")
	if got := buf.String(); got != "== Run abc ==\n-------------\n" {
		t.Fatalf("unexpected section %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
