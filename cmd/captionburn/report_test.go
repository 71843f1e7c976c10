package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"captionburn/internal/config"
	"captionburn/internal/deps"
)

func TestFormatOutcome(t *testing.T) {
	tests := []struct {
		label   string
		outcome outcome
		message string
		want    string
	}{
		{"Output", outcomeFailed, "not written", "  Output:      [ERROR] not written"},
		{"Cues", outcomeInfo, "2 written", "  Cues:        [INFO] 2 written"},
		{"Dependencies", outcomeOK, "", "  Dependencies: [OK]"},
	}
	for _, tc := range tests {
		if got := formatOutcome(tc.label, tc.outcome, tc.message, false); got != tc.want {
			t.Fatalf("formatOutcome(%q)\n got: %q\nwant: %q", tc.label, got, tc.want)
		}
	}
}

func TestFormatOutcomeColor(t *testing.T) {
	plain := formatOutcome("Output", outcomeOK, "done", false)
	got := formatOutcome("Output", outcomeOK, "done", true)
	if want := (text.Colors{text.FgGreen}).Sprint(plain); got != want {
		t.Fatalf("expected green rendering %q, got %q", want, got)
	}
}

func TestReportTablePadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	r := &report{out: &buf}
	r.table([]string{"Setting", "Value"}, [][]string{{"ffmpeg.binary"}, {"output.keep_srt", "yes"}})
	out := buf.String()
	for _, fragment := range []string{"ffmpeg.binary", "output.keep_srt", "yes"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in table:\n%s", fragment, out)
		}
	}
	if formatTable(nil, nil) != "" {
		t.Fatal("expected empty table without headers")
	}
}

func TestDependencyVerdict(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Available: true, Command: "/usr/bin/ffmpeg"},
		{Name: "FFprobe", Optional: true, Detail: `binary "ffprobe" not found`},
	}
	_, o, message := dependencyVerdict(statuses, deps.MissingRequired(statuses))
	if o != outcomeWarn || !strings.HasPrefix(message, "ready; FFprobe unavailable") {
		t.Fatalf("unexpected verdict %v %q", o, message)
	}

	statuses[0].Available = false
	_, o, message = dependencyVerdict(statuses, deps.MissingRequired(statuses))
	if o != outcomeFailed || message != "missing FFmpeg" {
		t.Fatalf("unexpected verdict %v %q", o, message)
	}
}

func TestDependencyTable(t *testing.T) {
	headers, rows := dependencyTable([]deps.Status{
		{Name: "FFmpeg", Command: "ffmpeg", Available: true, Description: "burns subtitles"},
		{Name: "FFprobe", Optional: true},
	})
	if len(headers) != 4 || headers[0] != "Dependency" {
		t.Fatalf("unexpected headers %v", headers)
	}
	if rows[0][2] != "available" || rows[1][2] != "missing (optional)" {
		t.Fatalf("unexpected states %v", rows)
	}
}

func TestEffectiveSettings(t *testing.T) {
	cfg := config.Default()
	cfg.FFmpeg.ExtraArgs = []string{"-preset", "fast"}
	settings := map[string]string{}
	for _, row := range effectiveSettings(&cfg) {
		settings[row[0]] = row[1]
	}
	if settings["ffmpeg.extra_args"] != "-preset fast" {
		t.Fatalf("extra args = %q", settings["ffmpeg.extra_args"])
	}
	if settings["captions.gap_ms"] != "10" {
		t.Fatalf("gap = %q", settings["captions.gap_ms"])
	}
	if settings["logging.file"] != "(stderr only)" {
		t.Fatalf("log file = %q", settings["logging.file"])
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
