package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/cachebox"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("d", nil)
	l.Warn("retrying", cachebox.Fields{"method": "getEntry", "err": errors.New("down"), "skip": nil})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].Message != "retrying" {
		t.Fatalf("entry=%+v", entries[1].Entry)
	}
	ctx := entries[1].ContextMap()
	if ctx["method"] != "getEntry" || ctx["err"] != "down" {
		t.Fatalf("fields=%v", ctx)
	}
	if _, ok := ctx["skip"]; ok {
		t.Fatalf("nil field emitted")
	}
}

func TestNilLoggerIsNop(t *testing.T) {
	New(nil).Error("ignored", cachebox.Fields{"k": 1})
}
