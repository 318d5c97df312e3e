package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}

	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.attr)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("op", "GetAllPets", "request_id", "r-1").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "op=GetAllPets", "request_id=r-1", "k=v"} {
		assert.Contains(t, out, s)
	}
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantSub string
		wantErr bool
	}{
		{name: "text", format: FormatText, level: "info", wantSub: "msg=hello"},
		{name: "empty format is text", format: "", level: "", wantSub: "msg=hello"},
		{name: "json", format: FormatJSON, level: "debug", wantSub: `"msg":"hello"`},
		{name: "zap", format: FormatZap, level: "info", wantSub: `"msg":"hello"`},
		{name: "bad format", format: "xml", level: "info", wantErr: true},
		{name: "bad slog level", format: FormatText, level: "loud", wantErr: true},
		{name: "bad zap level", format: FormatZap, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(tt.format, tt.level, &buf)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			log.With("component", "test").Info(context.Background(), "hello", "k", "v")
			out := buf.String()
			assert.Contains(t, out, tt.wantSub)
			assert.True(t, strings.Contains(out, "component"), "child attributes missing: %s", out)
		})
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(FormatZap, "warn", &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "quiet")
	log.Warn(context.Background(), "loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	log := NewNop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.With("a", 1).Error(ctx, "x")
}
