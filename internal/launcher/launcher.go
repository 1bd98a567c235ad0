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

// Package launcher sequences the lifetime of the process: single-instance
// guard, hook library load, message loop, and teardown in reverse order.
// It is OS-independent; cmd/imeoffhook supplies the Windows pieces.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/workturnedplay/imeoffhook/internal/instance"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Logger receives progress and failure lines.
type Logger interface {
	Logf(format string, args ...any)
}

// Guard is a held single-instance marker.
type Guard interface {
	Release() error
}

// Library is a loaded hook library.
type Library interface {
	Installed() bool
	Close() error
}

// Loop is the blocking event pump.
type Loop interface {
	Run(ctx context.Context) error
}

// Deps are the collaborators Run sequences. Acquire must return
// instance.ErrAlreadyRunning when a peer instance holds the guard.
type Deps struct {
	Acquire func() (Guard, error)
	Load    func() (Library, error)
	Loop    Loop
	Log     Logger
}

// Run executes one launcher lifetime and returns the process exit code.
// Once the guard is held, teardown runs on every path, including a panic
// in any later step, which is reported as ExitFailure.
func Run(ctx context.Context, d Deps) (code int) {
	guard, err := d.Acquire()
	if err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			d.Log.Logf("already running, exiting")
			return ExitOK
		}
		d.Log.Logf("single-instance guard: %v", err)
		return ExitFailure
	}
	defer func() {
		if err := guard.Release(); err != nil {
			d.Log.Logf("releasing single-instance guard: %v", err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			d.Log.Logf("--- CRASH: %v ---\nStack: %s\n--- END---", r, debug.Stack())
			code = ExitFailure
		}
	}()

	lib, err := d.Load()
	if err != nil {
		d.Log.Logf("loading hook library: %v", err)
		return ExitFailure
	}
	defer func() {
		if err := lib.Close(); err != nil {
			d.Log.Logf("unloading hook library: %v", err)
		}
	}()
	if !lib.Installed() {
		d.Log.Logf("hook library loaded but the keyboard hook is not installed; running inert")
	}

	d.Log.Logf("entering message loop")
	if err := d.Loop.Run(ctx); err != nil {
		d.Log.Logf("message loop: %v", err)
		return ExitFailure
	}
	d.Log.Logf("message loop exited normally")
	return ExitOK
}

// String renders an exit code for logs.
func String(code int) string {
	switch code {
	case ExitOK:
		return "ok"
	case ExitFailure:
		return "failure"
	default:
		return fmt.Sprintf("exit(%d)", code)
	}
}
