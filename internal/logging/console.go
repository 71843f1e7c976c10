package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	consoleTimeLayout = "2006-01-02 15:04:05"
	shortRunIDLen     = 8
)

// consoleHandler writes one line per record:
//
//	2026-01-02 15:04:05 WARN  [1a2b3c4d] burn: subtitle validation issue (srt_validation) issue=overlap hint: ... impact: ...
//
// run_id, component and event_type move into the header; error_hint and
// impact trail the ordinary fields so the actionable text reads last.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	prefix    string
	attrs     []scopedAttr
}

// scopedAttr remembers the group prefix that was open when With was called.
type scopedAttr struct {
	prefix string
	attr   slog.Attr
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	line := consoleLine{}
	for _, sa := range h.attrs {
		line.add(sa.prefix, sa.attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		line.add(h.prefix, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(ts.Local().Format(consoleTimeLayout))
	buf.WriteByte(' ')
	buf.WriteString(consoleLevel(record.Level))
	if line.runID != "" {
		buf.WriteString(" [")
		buf.WriteString(shortRunID(line.runID))
		buf.WriteByte(']')
	}
	buf.WriteByte(' ')
	if line.component != "" {
		buf.WriteString(line.component)
		buf.WriteString(": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(msg)
	if line.event != "" {
		buf.WriteString(" (")
		buf.WriteString(line.event)
		buf.WriteByte(')')
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range line.fields {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(consoleValue(f.value))
	}
	if line.hint != "" {
		buf.WriteString(" hint: ")
		buf.WriteString(line.hint)
	}
	if line.impact != "" {
		buf.WriteString(" impact: ")
		buf.WriteString(line.impact)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]scopedAttr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, scopedAttr{prefix: h.prefix, attr: attr})
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

type consoleField struct {
	key   string
	value slog.Value
}

// consoleLine sorts a record's attributes into header slots and body fields.
// The first value seen for a header key wins.
type consoleLine struct {
	runID     string
	component string
	event     string
	hint      string
	impact    string
	fields    []consoleField
}

func (l *consoleLine) add(prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = prefix + attr.Key + "."
		}
		for _, member := range value.Group() {
			l.add(next, member)
		}
		return
	}
	key := prefix + attr.Key
	switch key {
	case FieldRunID:
		setOnce(&l.runID, value)
	case FieldComponent:
		setOnce(&l.component, value)
	case FieldEventType:
		setOnce(&l.event, value)
	case FieldErrorHint:
		setOnce(&l.hint, value)
	case FieldImpact:
		setOnce(&l.impact, value)
	default:
		l.fields = append(l.fields, consoleField{key: key, value: value})
	}
}

func setOnce(slot *string, value slog.Value) {
	if *slot == "" {
		*slot = value.String()
	}
}

func shortRunID(id string) string {
	if len(id) > shortRunIDLen {
		return id[:shortRunIDLen]
	}
	return id
}

func consoleLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	}
	return "DEBUG"
}

func consoleValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().Local().Format(consoleTimeLayout)
	case slog.KindString, slog.KindAny:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") || s == "" {
			return strconv.Quote(s)
		}
		return s
	}
	return v.String()
}
