// Package sloghooks reports connector events to a *slog.Logger with sampling
// and storage-key redaction.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/cachebox"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ExpiredEvery uint64
	RetryEvery   uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	expiredCtr atomic.Uint64
	retryCtr   atomic.Uint64
}

var _ cachebox.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) RetryScheduled(method string, attempt int, err error) {
	if h.l == nil || !sample(h.opts.RetryEvery, &h.retryCtr) {
		return
	}
	h.l.Info("cachebox.retry_scheduled",
		"method", method,
		"attempt", attempt,
		"err", err)
}

func (h *Hooks) RetriesExhausted(method string, attempts int) {
	if h.l == nil {
		return
	}
	h.l.Error("cachebox.retries_exhausted",
		"method", method,
		"attempts", attempts)
}

func (h *Hooks) EntryExpired(storageKey string) {
	if h.l == nil || !sample(h.opts.ExpiredEvery, &h.expiredCtr) {
		return
	}
	h.l.Debug("cachebox.entry_expired", "key", h.redact(storageKey))
}

func (h *Hooks) ExpiryFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachebox.expiry_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachebox.provider_set_rejected", "key", h.redact(storageKey))
}
