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

// Package keyhook is the hook library: a system-wide low-level keyboard
// hook that answers Escape and Ctrl+C key-downs with a tap of the
// non-convert key, which Japanese IMEs treat as "IME off".
//
// Open loads the library and installs the hook, Close removes it. The hook
// is delivered through the message queue of the thread that installed it,
// so Open must run on the thread of a live event pump (see Pump).
//
// The original key event is never swallowed. Events injected by this
// package carry InjectedTag in dwExtraInfo and are skipped by the matcher,
// so an injected tap can never re-trigger the hook.
package keyhook

import (
	"errors"
	"fmt"
)

// Virtual-key codes and messages used by the hook.
//
//revive:disable:var-naming
const (
	VK_CONTROL    = 0x11
	VK_ESCAPE     = 0x1B
	VK_NONCONVERT = 0x1D
	VK_C          = 0x43

	WM_KEYDOWN    = 0x0100
	WM_KEYUP      = 0x0101
	WM_SYSKEYDOWN = 0x0104

	HC_ACTION = 0

	LLKHF_INJECTED = 0x00000010
)

//revive:enable:var-naming

// InjectedTag is stamped into dwExtraInfo of every event this package
// injects.
const InjectedTag uintptr = 0x494D454F // "IMEO"

var (
	// ErrAlreadyInstalled is returned by Open while another Library is loaded
	// in this process.
	ErrAlreadyInstalled = errors.New("keyhook: a keyboard hook is already installed in this process")
	// ErrWrongThread is returned when Open or Close runs on a thread other
	// than the event pump's.
	ErrWrongThread = errors.New("keyhook: not on the event pump thread")
	// ErrSelfTrigger is returned for a trigger table that the synthesized
	// key itself would match.
	ErrSelfTrigger = errors.New("keyhook: synthesized key matches a trigger")
)

// Pump is the event-pump capability the hook needs from its host: the OS
// thread whose message loop keeps the hook dispatched.
type Pump interface {
	ThreadID() uint32
}

// Logger receives diagnostics. It must not block.
type Logger interface {
	Logf(format string, args ...any)
}

// KeyState reports whether a virtual key is currently held, regardless of
// which event is being processed.
type KeyState interface {
	Down(vk uint16) bool
}

// Injector inserts a down/up pair of vk into the system input stream.
type Injector interface {
	Tap(vk uint16) error
}

// Event is the part of a KBDLLHOOKSTRUCT the matcher looks at.
type Event struct {
	VKCode    uint32
	Flags     uint32
	ExtraInfo uintptr
}

// Injected reports whether the event came from SendInput rather than a
// physical keyboard.
func (e Event) Injected() bool { return e.Flags&LLKHF_INJECTED != 0 }

// Trigger is a key that causes an injection when pressed, optionally only
// while Modifier is held.
type Trigger struct {
	Name     string
	VK       uint16
	Modifier uint16
}

func (t Trigger) String() string { return t.Name }

var defaultTriggers = []Trigger{
	{Name: "Esc", VK: VK_ESCAPE},
	{Name: "Ctrl+C", VK: VK_C, Modifier: VK_CONTROL},
}

// Handler decides, for one keyboard event, whether to inject the
// synthesized key.
type Handler struct {
	synth    uint16
	triggers []Trigger
	keys     KeyState
	inject   Injector
	log      Logger
}

func newHandler(synth uint16, triggers []Trigger, keys KeyState, inject Injector, log Logger) (*Handler, error) {
	if synth == 0 {
		return nil, errors.New("keyhook: synthesized key is zero")
	}
	for _, t := range triggers {
		if t.VK == synth {
			return nil, fmt.Errorf("%w: %s (vk 0x%02X)", ErrSelfTrigger, t, synth)
		}
	}
	return &Handler{
		synth:    synth,
		triggers: triggers,
		keys:     keys,
		inject:   inject,
		log:      log,
	}, nil
}

// Handle processes one hook event and reports whether the synthesized key
// was injected. Only WM_KEYDOWN is considered; the caller forwards the
// event down the hook chain in every case.
func (h *Handler) Handle(msg uintptr, ev Event) bool {
	if msg != WM_KEYDOWN || ev.ExtraInfo == InjectedTag {
		return false
	}
	t, ok := h.match(ev.VKCode)
	if !ok {
		return false
	}
	if err := h.inject.Tap(h.synth); err != nil {
		h.log.Logf("%s: injecting vk 0x%02X failed: %v", t, h.synth, err)
		return false
	}
	if ev.Injected() {
		h.log.Logf("%s (injected by another process): tapped vk 0x%02X", t, h.synth)
	} else {
		h.log.Logf("%s: tapped vk 0x%02X", t, h.synth)
	}
	return true
}

func (h *Handler) match(vk uint32) (Trigger, bool) {
	for _, t := range h.triggers {
		if uint32(t.VK) != vk {
			continue
		}
		// Modifier state comes from the async key state, not the event.
		if t.Modifier != 0 && !h.keys.Down(t.Modifier) {
			continue
		}
		return t, true
	}
	return Trigger{}, false
}
