package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/kiln/internal/ui/style"
)

// levelMark is the icon and style a record of some level is printed with.
type levelMark struct {
	icon  string
	style func(style.Palette) lipgloss.Style
}

func markFor(level slog.Level) levelMark {
	switch {
	case level >= slog.LevelError:
		return levelMark{icon: style.Cross, style: func(p style.Palette) lipgloss.Style { return p.Failure }}
	case level >= slog.LevelWarn:
		return levelMark{icon: style.Warning, style: func(p style.Palette) lipgloss.Style { return p.Warn }}
	case level < slog.LevelInfo:
		return levelMark{icon: style.Tilde, style: func(p style.Palette) lipgloss.Style { return p.Muted }}
	default:
		return levelMark{style: func(p style.Palette) lipgloss.Style { return p.Muted }}
	}
}

// PrettyHandler is a slog.Handler that writes one colored line per record.
// Attributes are appended in the same "(key=value, ...)" form used for error metadata.
type PrettyHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	palette style.Palette
	level   slog.Leveler
	attrs   []string
	groups  []string
}

// NewPrettyHandler creates a PrettyHandler writing to w, defaulting to stderr.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		mu:      &sync.Mutex{},
		w:       w,
		palette: style.NewPalette(w),
		level:   level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	mark := markFor(r.Level)

	msg := r.Message
	if mark.icon != "" {
		msg = mark.icon + " " + msg
	}

	parts := append([]string(nil), h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, h.groups, attr)
		return true
	})
	if len(parts) > 0 {
		msg = appendToFirstLine(msg, " ("+strings.Join(parts, ", ")+")")
	}

	// Lines are styled one by one; rendering a block would pad them to a common width.
	st := mark.style(h.palette)
	var b strings.Builder
	for line := range strings.SplitSeq(msg, "\n") {
		b.WriteString(st.Render(line))
		b.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a Handler with attrs appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		next.attrs = appendAttr(next.attrs, h.groups, attr)
	}
	return next
}

// WithGroup returns a Handler that nests later attribute keys under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		mu:      h.mu,
		w:       h.w,
		palette: h.palette,
		level:   h.level,
		attrs:   append([]string(nil), h.attrs...),
		groups:  append([]string(nil), h.groups...),
	}
}

// appendAttr renders attr as key=value, flattening group attributes into dotted keys.
func appendAttr(parts, groups []string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}

	if attr.Value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, nested, member)
		}
		return parts
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(parts, key+"="+attr.Value.String())
}

// appendToFirstLine keeps attributes next to the message when it spans several lines.
func appendToFirstLine(msg, suffix string) string {
	first, rest, multiline := strings.Cut(msg, "\n")
	if !multiline {
		return msg + suffix
	}
	return first + suffix + "\n" + rest
}
