// Package notify shows short, transient messages to the user: the terminal
// counterpart of a toast.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notifier interface {
	Notify(ctx context.Context, level Level, msg string)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, level Level, msg string)

func (f Func) Notify(ctx context.Context, level Level, msg string) { f(ctx, level, msg) }

// Console prints notifications as single lines, e.g. "[error] Invalid breed".
// Safe for concurrent use.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(_ context.Context, level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", level, msg)
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

type Entry struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(_ context.Context, level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
