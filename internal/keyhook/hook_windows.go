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

package keyhook

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

const WH_KEYBOARD_LL = 13 //revive:disable-line:var-naming

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procSendInput           = user32.NewProc("SendInput")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")

	hookProcs = []*windows.LazyProc{
		procSetWindowsHookEx,
		procCallNextHookEx,
		procUnhookWindowsHookEx,
		procSendInput,
		procGetAsyncKeyState,
	}
)

var (
	// The OS callback has no user pointer, so it finds the loaded library here.
	current          atomic.Pointer[Library]
	keyboardCallback = windows.NewCallback(keyboardProc)
)

// Library is a loaded hook library. The zero hook handle means the hook is
// not installed.
type Library struct {
	hook     windows.Handle
	threadID uint32
	handler  *Handler
	log      Logger
}

// Open loads the hook library on the calling thread, which must be pump's
// thread, and installs the keyboard hook. A failure to resolve the Win32
// entry points or to satisfy the thread precondition is returned as an
// error. A refused hook installation is not: the returned Library is then
// loaded but inert, Installed reports false and the refusal is logged.
func Open(pump Pump, log Logger) (*Library, error) {
	if err := assertStructSizes(); err != nil {
		return nil, err
	}
	for _, p := range hookProcs {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("keyhook: loading %s: %w", p.Name, err)
		}
	}
	tid := windows.GetCurrentThreadId()
	if want := pump.ThreadID(); tid != want {
		return nil, fmt.Errorf("%w: Open on thread %d, pump runs on %d", ErrWrongThread, tid, want)
	}
	h, err := newHandler(VK_NONCONVERT, defaultTriggers, asyncKeyState{}, sendInput{}, log)
	if err != nil {
		return nil, err
	}
	l := &Library{threadID: tid, handler: h, log: log}
	if !current.CompareAndSwap(nil, l) {
		return nil, ErrAlreadyInstalled
	}
	l.install()
	return l, nil
}

func (l *Library) install() {
	r, _, err := procSetWindowsHookEx.Call(WH_KEYBOARD_LL, keyboardCallback, 0, 0)
	if r == 0 {
		l.log.Logf("SetWindowsHookEx(WH_KEYBOARD_LL) failed, keys will not be intercepted: %v", err)
		return
	}
	l.hook = windows.Handle(r)
	l.log.Logf("keyboard hook installed on thread %d (triggers: %v)", l.threadID, l.handler.triggers)
}

// Installed reports whether the keyboard hook is currently installed.
func (l *Library) Installed() bool { return l.hook != 0 }

// Close removes the hook and unloads the library. It is a no-op when the
// hook was never installed or Close already ran. It must run on the thread
// that called Open.
func (l *Library) Close() error {
	if l.hook != 0 {
		if tid := windows.GetCurrentThreadId(); tid != l.threadID {
			return fmt.Errorf("%w: Close on thread %d, hook belongs to %d", ErrWrongThread, tid, l.threadID)
		}
		r, _, err := procUnhookWindowsHookEx.Call(uintptr(l.hook))
		l.hook = 0
		if r == 0 {
			current.CompareAndSwap(l, nil)
			return fmt.Errorf("UnhookWindowsHookEx: %w", err)
		}
		l.log.Logf("keyboard hook removed")
	}
	current.CompareAndSwap(l, nil)
	return nil
}

func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if int32(nCode) == HC_ACTION {
		if l := current.Load(); l != nil {
			// lParam is an OS-owned KBDLLHOOKSTRUCT valid for the duration of the call.
			k := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
			l.handler.Handle(wParam, Event{
				VKCode:    k.VkCode,
				Flags:     k.Flags,
				ExtraInfo: k.DwExtraInfo,
			})
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}
