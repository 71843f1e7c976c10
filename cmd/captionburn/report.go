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
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type outcome int

const (
	outcomeInfo outcome = iota
	outcomeOK
	outcomeWarn
	outcomeFailed
)

const reportLabelWidth = 12

var outcomeStyles = map[outcome]struct {
	tag    string
	colors text.Colors
}{
	outcomeInfo:   {"INFO", text.Colors{text.FgBlue}},
	outcomeOK:     {"OK", text.Colors{text.FgGreen}},
	outcomeWarn:   {"WARN", text.Colors{text.FgYellow}},
	outcomeFailed: {"ERROR", text.Colors{text.FgRed}},
}

// report writes a command's result to stdout. Human output is a heading,
// labelled outcome lines and tables; --json output is indented JSON only.
type report struct {
	out   io.Writer
	color bool
}

func newReport(cmd *cobra.Command) *report {
	out := cmd.OutOrStdout()
	return &report{out: out, color: isTerminal(out)}
}

func (r *report) json(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *report) heading(title string) {
	line := "== " + strings.TrimSpace(title) + " =="
	if r.color {
		line = text.Colors{text.Bold}.Sprint(line)
	}
	fmt.Fprintln(r.out, line)
}

func (r *report) line(label string, o outcome, message string) {
	fmt.Fprintln(r.out, formatOutcome(label, o, message, r.color))
}

func (r *report) table(headers []string, rows [][]string) {
	fmt.Fprintln(r.out, formatTable(headers, rows))
}

// formatOutcome renders "  Label:       [TAG] message".
func formatOutcome(label string, o outcome, message string, color bool) string {
	style := outcomeStyles[o]
	tag := "[" + style.tag + "]"
	if message != "" {
		tag += " " + message
	}
	line := fmt.Sprintf("  %-*s %s", reportLabelWidth, label+":", tag)
	if color {
		return style.colors.Sprint(line)
	}
	return line
}

func formatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	toRow := func(cells []string) table.Row {
		row := make(table.Row, len(headers))
		for i := range row {
			if i < len(cells) {
				row[i] = cells[i]
			} else {
				row[i] = ""
			}
		}
		return row
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers))
	tw.AppendRows(lo.Map(rows, func(cells []string, _ int) table.Row { return toRow(cells) }))
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
