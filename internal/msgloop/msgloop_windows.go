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

package msgloop

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

//revive:disable:var-naming
const (
	WM_QUIT     = 0x0012
	PM_NOREMOVE = 0x0000
)

//revive:enable:var-naming

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetMessage        = user32.NewProc("GetMessageW")
	procPeekMessage       = user32.NewProc("PeekMessageW")
	procTranslateMessage  = user32.NewProc("TranslateMessage")
	procDispatchMessage   = user32.NewProc("DispatchMessageW")
	procPostThreadMessage = user32.NewProc("PostThreadMessageW")
)

type POINT struct {
	X, Y int32
}

type MSG struct {
	HWnd    windows.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      POINT
}

// Loop is the message loop of one OS thread.
type Loop struct {
	threadID uint32
}

// New binds a Loop to the calling OS thread. The caller must have called
// runtime.LockOSThread and must call Run from the same goroutine.
func New() (*Loop, error) {
	for _, p := range []*windows.LazyProc{procGetMessage, procPeekMessage, procTranslateMessage, procDispatchMessage, procPostThreadMessage} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("msgloop: loading %s: %w", p.Name, err)
		}
	}
	// A thread has no message queue until it calls a USER function that
	// needs one; PostThreadMessage to it would fail until then.
	var msg MSG
	procPeekMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, PM_NOREMOVE)
	return &Loop{threadID: windows.GetCurrentThreadId()}, nil
}

// ThreadID returns the id of the thread whose queue this Loop pumps.
func (l *Loop) ThreadID() uint32 { return l.threadID }

// Run retrieves and dispatches messages until WM_QUIT arrives or ctx is
// done. It returns nil on WM_QUIT and an error if GetMessage fails.
func (l *Loop) Run(ctx context.Context) error {
	if tid := windows.GetCurrentThreadId(); tid != l.threadID {
		return fmt.Errorf("%w: thread %d, loop thread %d", ErrWrongThread, tid, l.threadID)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = l.Quit()
		case <-stop:
		}
	}()

	var msg MSG
	for {
		r, _, err := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(r) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("GetMessage: %w", err)
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

// Quit posts WM_QUIT to the loop thread. It may be called from any
// goroutine or OS thread.
func (l *Loop) Quit() error {
	r, _, err := procPostThreadMessage.Call(uintptr(l.threadID), WM_QUIT, 0, 0)
	if r == 0 {
		return fmt.Errorf("PostThreadMessage(WM_QUIT): %w", err)
	}
	return nil
}
