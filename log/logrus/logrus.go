// Package logrus adapts logrus to cachebox.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/cachebox"
)

var _ cachebox.Logger = Logger{}

type Logger struct{ e *logrus.Entry }

// New wraps an entry, keeping any fields already attached to it.
func New(e *logrus.Entry) Logger { return Logger{e: e} }

// FromLogger wraps l with a "component" field.
func FromLogger(l *logrus.Logger, component string) Logger {
	return Logger{e: l.WithField("component", component)}
}

func (l Logger) with(f cachebox.Fields) *logrus.Entry {
	e := l.e
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			e = e.WithError(err)
			continue
		}
		e = e.WithField(k, v)
	}
	return e
}

func (l Logger) Debug(msg string, f cachebox.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f cachebox.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f cachebox.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f cachebox.Fields) { l.with(f).Error(msg) }
