// Package logging builds the slog loggers of the uigen command.
//
// Three formats are available: compact (one line, attributes as a JSON
// object, the default), text (slog.TextHandler) and json
// (slog.JSONHandler).
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Format is a log output format.
type Format string

const (
	FormatCompact Format = "compact"
	FormatText    Format = "text"
	FormatJSON    Format = "json"
)

// ParseFormat resolves s case-insensitively. Unknown values fall back to
// FormatCompact.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText
	case FormatJSON:
		return FormatJSON
	default:
		return FormatCompact
	}
}

// New returns a logger writing records at or above level to output.
func New(output io.Writer, format Format, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	switch format {
	case FormatText:
		return slog.New(slog.NewTextHandler(output, options))
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(output, options))
	default:
		return slog.New(NewCompactHandler(output, level))
	}
}

// CompactHandler writes one line per record:
//
//	2024-05-01 09:30:00  WARN retrying request → {"attempt":1,"provider":"openai"}
type CompactHandler struct {
	output io.Writer
	level  slog.Level
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// NewCompactHandler returns a CompactHandler.
func NewCompactHandler(output io.Writer, level slog.Level) *CompactHandler {
	return &CompactHandler{output: output, level: level, mu: &sync.Mutex{}}
}

// Enabled implements slog.Handler.
func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler.
func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	if !r.Time.IsZero() {
		buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
		buf = append(buf, ' ')
	}
	buf = append(buf, fmt.Sprintf("%5s", r.Level.String())...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	if attrs := h.collectAttrs(r); len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			encoded = []byte(`{"log_error":"unencodable attributes"}`)
		}
		buf = append(buf, " → "...)
		buf = append(buf, encoded...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

// WithAttrs implements slog.Handler.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.prefix(attr.Key)
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *CompactHandler) collectAttrs(r slog.Record) map[string]any {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		addAttr(attrs, attr.Key, attr.Value)
	}
	r.Attrs(func(attr slog.Attr) bool {
		addAttr(attrs, h.prefix(attr.Key), attr.Value)
		return true
	})
	return attrs
}

func (h *CompactHandler) prefix(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

// addAttr flattens group values into dotted keys. Errors are stored as
// their message, other values as slog resolves them.
func addAttr(attrs map[string]any, key string, value slog.Value) {
	value = value.Resolve()

	if value.Kind() == slog.KindGroup {
		group := value.Group()
		sort.SliceStable(group, func(i, j int) bool { return group[i].Key < group[j].Key })
		for _, attr := range group {
			addAttr(attrs, key+"."+attr.Key, attr.Value)
		}
		return
	}

	if err, ok := value.Any().(error); ok {
		attrs[key] = err.Error()
		return
	}
	attrs[key] = value.Any()
}
