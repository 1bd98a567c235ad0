//go:build windows

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

// Command imeoffhook keeps a global keyboard hook running that taps the
// non-convert key (IME off) whenever Escape or Ctrl+C is pressed.
//
// It takes no arguments. Exit status is 0 after a normal shutdown or when
// another instance is already running, 1 when the single-instance mutex
// or the hook library cannot be set up.
//
// Build without a console window with:
//
//	go build -ldflags="-H=windowsgui" ./cmd/imeoffhook
package main

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/windows"

	"github.com/workturnedplay/imeoffhook/internal/applog"
	"github.com/workturnedplay/imeoffhook/internal/instance"
	"github.com/workturnedplay/imeoffhook/internal/keyhook"
	"github.com/workturnedplay/imeoffhook/internal/launcher"
	"github.com/workturnedplay/imeoffhook/internal/msgloop"
	"github.com/workturnedplay/imeoffhook/internal/winprio"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetConsoleWindow      = kernel32.NewProc("GetConsoleWindow")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

func main() {
	// Hooks and message queues are bound to the OS thread. Lock before
	// anything touches either.
	runtime.LockOSThread()

	log := applog.NewConsole()
	code := run(log)
	log.Logf("exiting with code %d (%s)", code, launcher.String(code))
	log.Close()
	close(teardownDone)
	os.Exit(code) // the only os.Exit
}

func run(log *applog.Logger) int {
	loop, err := msgloop.New()
	if err != nil {
		log.Logf("creating message loop: %v", err)
		return launcher.ExitFailure
	}
	installCtrlHandlerIfConsole(loop, log)

	return launcher.Run(context.Background(), launcher.Deps{
		Acquire: func() (launcher.Guard, error) {
			g, err := instance.Acquire(mutexName, mutexScope)
			if err != nil {
				return nil, err
			}
			log.Logf("holding single-instance mutex %s", g.Name())
			return g, nil
		},
		Load: func() (launcher.Library, error) {
			_ = winprio.Raise(log) // logged inside, never fatal
			lib, err := keyhook.Open(loop, log)
			if err != nil {
				return nil, err
			}
			return lib, nil
		},
		Loop: loop,
		Log:  log,
	})
}

// teardownDone is closed once run has returned and the log is flushed.
var teardownDone = make(chan struct{})

// ctrl is read by the console control handler, which Windows runs on a
// thread of its own.
var ctrl atomic.Pointer[ctrlResponder]

var ctrlHandler = windows.NewCallback(func(ctrlType uint32) uintptr {
	if c := ctrl.Load(); c != nil {
		return c.handle(ctrlType)
	}
	return 0
})

func getConsoleWindow() (windows.HWND, error) {
	r1, _, err := procGetConsoleWindow.Call()
	hwnd := windows.HWND(r1)
	if hwnd == 0 {
		if err != nil && err != windows.ERROR_SUCCESS {
			return 0, err
		}
		// No console is a normal state for a windowsgui build.
		return 0, nil
	}
	return hwnd, nil
}

func hasRealConsole() bool {
	hwnd, err := getConsoleWindow()
	return err == nil && hwnd != 0
}

func installCtrlHandlerIfConsole(loop *msgloop.Loop, log *applog.Logger) {
	if !hasRealConsole() {
		return
	}
	ctrl.Store(&ctrlResponder{quit: loop.Quit, done: teardownDone, wait: closeWait})
	if r, _, err := procSetConsoleCtrlHandler.Call(ctrlHandler, 1); r == 0 {
		log.Logf("SetConsoleCtrlHandler failed: %v", err)
		return
	}
	log.Logf("installed console control handler")
}
