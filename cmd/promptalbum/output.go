package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 12
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// printer renders human output for one command, colouring only terminals.
type printer struct {
	w        io.Writer
	colorize bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, colorize: shouldColorize(w)}
}

func (p *printer) status(label string, kind statusKind, format string, args ...any) {
	fmt.Fprintln(p.w, formatStatus(label, kind, fmt.Sprintf(format, args...), p.colorize))
}

func (p *printer) section(title string) {
	heading := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(heading))
	if p.colorize {
		heading, rule = ansiBlue+heading+ansiReset, ansiBlue+rule+ansiReset
	}
	fmt.Fprintln(p.w, heading)
	fmt.Fprintln(p.w, rule)
}

func (p *printer) indented(line string) {
	fmt.Fprintln(p.w, statusIndent+line)
}

func (p *printer) table(t tableSpec) {
	if out := t.render(); out != "" {
		fmt.Fprintln(p.w, out)
	}
}

// formatStatus renders "  Label:       [KIND] message".
func formatStatus(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	badge := "[" + style.label + "]"
	if message != "" {
		badge += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", badge)
	if colorize && style.color != "" {
		return style.color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// tableSpec describes a rounded go-pretty table. Columns listed in right are
// right-aligned; Empty replaces the body when there are no rows.
type tableSpec struct {
	headers []string
	rows    [][]string
	right   []int
	empty   string
}

func (t tableSpec) render() string {
	if len(t.headers) == 0 {
		return ""
	}
	if len(t.rows) == 0 && t.empty != "" {
		return statusIndent + t.empty
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(t.headers, len(t.headers)))
	for _, row := range t.rows {
		tw.AppendRow(toRow(row, len(t.headers)))
	}

	configs := make([]table.ColumnConfig, len(t.headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	for _, col := range t.right {
		if col >= 0 && col < len(configs) {
			configs[col].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

// writeJSON encodes v as indented JSON on stdout. Paths are written without
// HTML escaping.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
