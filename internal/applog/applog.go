// Copyright 2026 workturnedplay
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package applog is a small asynchronous logger. Logf never blocks the
// caller: lines go through a buffered channel to a single writer goroutine
// and are dropped (and counted) when the channel is full. Hook callbacks
// log through it.
package applog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// DefaultSize is the channel capacity used by NewConsole.
const DefaultSize = 1024

const timeLayout = "Mon Jan 2 15:04:05.000000000 MST 2006"

const attemptAtomicSwapThisManyTimes = 100

// Logger writes timestamped lines to an io.Writer from a background goroutine.
type Logger struct {
	out  io.Writer
	ch   chan string
	done chan struct{}

	mu     sync.RWMutex
	closed bool

	dropped atomic.Uint64
	peak    atomic.Uint64

	now func() time.Time
}

// New returns a started Logger writing to out with room for size queued lines.
func New(out io.Writer, size int) *Logger {
	l := newLogger(out, size)
	l.start()
	return l
}

// NewConsole logs to stderr when it is a terminal and discards everything
// otherwise, so a windowless run leaves nothing behind on disk.
func NewConsole() *Logger {
	var out io.Writer = io.Discard
	if term.IsTerminal(int(os.Stderr.Fd())) {
		out = os.Stderr
	}
	return New(out, DefaultSize)
}

func newLogger(out io.Writer, size int) *Logger {
	if size < 1 {
		size = 1
	}
	return &Logger{
		out:  out,
		ch:   make(chan string, size),
		done: make(chan struct{}),
		now:  time.Now,
	}
}

func (l *Logger) start() {
	go l.worker()
}

func (l *Logger) worker() {
	defer close(l.done)
	for msg := range l.ch {
		_, _ = io.WriteString(l.out, msg)
	}
}

func (l *Logger) line(format string, args ...any) string {
	return fmt.Sprintf("[%s] %s\n", l.now().Format(timeLayout), fmt.Sprintf(format, args...))
}

// Logf queues one formatted line. It is safe for concurrent use and is a
// no-op after Close.
func (l *Logger) Logf(format string, args ...any) {
	msg := l.line(format, args...)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}

	depth := uint64(len(l.ch))
	for range attemptAtomicSwapThisManyTimes {
		old := l.peak.Load()
		if depth <= old || l.peak.CompareAndSwap(old, depth) {
			break
		}
	}

	select {
	case l.ch <- msg:
	default:
		l.dropped.Add(1)
	}
}

// Dropped reports how many lines were discarded because the queue was full.
func (l *Logger) Dropped() uint64 { return l.dropped.Load() }

// Peak reports the deepest the queue has been when a line was submitted.
func (l *Logger) Peak() uint64 { return l.peak.Load() }

// Close stops accepting lines, waits for the queue to drain and then writes
// the drop and peak statistics. Calling it again does nothing.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.ch)
	l.mu.Unlock()

	<-l.done

	if n := l.dropped.Load(); n > 0 {
		_, _ = io.WriteString(l.out, l.line("dropped %d log lines, queue of %d was full", n, cap(l.ch)))
	}
	if p := l.peak.Load(); p > 1 {
		_, _ = io.WriteString(l.out, l.line("peak queued log lines: %d of %d", p, cap(l.ch)))
	}
}
