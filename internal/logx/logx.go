// Package logx configures the default slog logger used by the sublex utility.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity level selected by the user.
// Messages at or above this level are shown.
var UserLevel = slog.LevelWarn

// LevelFromFlags returns the level corresponding to the given flags:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// Flags are checked in that order.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Handler writes one line per record: coloured level name, message, attributes as key=value.
// Colours are dropped when the output is not a terminal.
type Handler struct {
	mu    *sync.Mutex
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler creates handler writing to w. Nil level means UserLevel at the time of each call.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{mu: &sync.Mutex{}, out: termenv.NewOutput(w), level: level}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	if h.level == nil {
		return l >= UserLevel
	}
	return l >= h.level.Level()
}

func (h *Handler) levelText(l slog.Level) string {
	name := strings.ToLower(l.String())
	var c termenv.Color
	switch {
	case l >= slog.LevelError:
		c = h.out.Color("1")
	case l >= slog.LevelWarn:
		c = h.out.Color("3")
	case l >= slog.LevelInfo:
		c = h.out.Color("6")
	default:
		c = h.out.Color("8")
	}
	return h.out.String(name).Foreground(c).Bold().String()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.levelText(r.Level))
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.group, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, e := io.WriteString(h.out, sb.String())
	return e
}

func writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	sb.WriteByte(' ')
	if group != "" {
		sb.WriteString(group)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.Resolve().String())
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := *h
	res.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &res
}

func (h *Handler) WithGroup(name string) slog.Handler {
	res := *h
	if res.group != "" {
		name = res.group + "." + name
	}
	res.group = name
	return &res
}

// SetDefaultLogger installs a logger writing to stderr at UserLevel as the slog default.
func SetDefaultLogger() *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger dropping every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}
