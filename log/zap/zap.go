// Package zap adapts a *zap.Logger to cachebox.Logger.
package zap

import (
	"sort"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/cachebox"
)

var _ cachebox.Logger = Logger{}

type Logger struct{ l *zap.Logger }

// New wraps l. A nil l discards everything.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{l: l}
}

func (z Logger) Debug(msg string, f cachebox.Fields) { z.l.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f cachebox.Fields)  { z.l.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f cachebox.Fields)  { z.l.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f cachebox.Fields) { z.l.Error(msg, fields(f)...) }

// fields emits keys in sorted order; errors keep zap's error encoding.
func fields(f cachebox.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case nil:
			continue
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
