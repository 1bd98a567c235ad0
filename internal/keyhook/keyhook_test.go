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
	"errors"
	"fmt"
	"testing"
)

type fakeKeys map[uint16]bool

func (k fakeKeys) Down(vk uint16) bool { return k[vk] }

type fakeInjector struct {
	taps []uint16
	err  error
}

func (f *fakeInjector) Tap(vk uint16) error {
	if f.err != nil {
		return f.err
	}
	f.taps = append(f.taps, vk)
	return nil
}

type lines []string

func (l *lines) Logf(format string, args ...any) {
	*l = append(*l, fmt.Sprintf(format, args...))
}

func newTestHandler(t *testing.T, keys fakeKeys) (*Handler, *fakeInjector) {
	t.Helper()
	inj := &fakeInjector{}
	h, err := newHandler(VK_NONCONVERT, defaultTriggers, keys, inj, &lines{})
	if err != nil {
		t.Fatalf("newHandler: %v", err)
	}
	return h, inj
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		msg      uintptr
		ev       Event
		ctrlDown bool
		want     bool
	}{
		{name: "escape", msg: WM_KEYDOWN, ev: Event{VKCode: VK_ESCAPE}, want: true},
		{name: "escape with ctrl", msg: WM_KEYDOWN, ev: Event{VKCode: VK_ESCAPE}, ctrlDown: true, want: true},
		{name: "ctrl+c", msg: WM_KEYDOWN, ev: Event{VKCode: VK_C}, ctrlDown: true, want: true},
		{name: "c alone", msg: WM_KEYDOWN, ev: Event{VKCode: VK_C}},
		{name: "other key", msg: WM_KEYDOWN, ev: Event{VKCode: 'A'}},
		{name: "other key with ctrl", msg: WM_KEYDOWN, ev: Event{VKCode: 'V'}, ctrlDown: true},
		{name: "escape key-up", msg: WM_KEYUP, ev: Event{VKCode: VK_ESCAPE}},
		{name: "escape sys key-down", msg: WM_SYSKEYDOWN, ev: Event{VKCode: VK_ESCAPE}},
		{name: "synthesized key", msg: WM_KEYDOWN, ev: Event{VKCode: VK_NONCONVERT}, ctrlDown: true},
		{
			name: "own injected escape",
			msg:  WM_KEYDOWN,
			ev:   Event{VKCode: VK_ESCAPE, Flags: LLKHF_INJECTED, ExtraInfo: InjectedTag},
		},
		{
			name: "escape injected by another process",
			msg:  WM_KEYDOWN,
			ev:   Event{VKCode: VK_ESCAPE, Flags: LLKHF_INJECTED},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, inj := newTestHandler(t, fakeKeys{VK_CONTROL: tt.ctrlDown})
			if got := h.Handle(tt.msg, tt.ev); got != tt.want {
				t.Errorf("Handle() = %v, want %v", got, tt.want)
			}
			wantTaps := 0
			if tt.want {
				wantTaps = 1
			}
			if len(inj.taps) != wantTaps {
				t.Fatalf("taps = %v, want %d tap(s)", inj.taps, wantTaps)
			}
			for _, vk := range inj.taps {
				if vk != VK_NONCONVERT {
					t.Errorf("tapped vk 0x%02X, want 0x%02X", vk, VK_NONCONVERT)
				}
			}
		})
	}
}

func TestHandleInjectFailure(t *testing.T) {
	inj := &fakeInjector{err: errors.New("SendInput inserted 0 of 2 events")}
	var log lines
	h, err := newHandler(VK_NONCONVERT, defaultTriggers, fakeKeys{}, inj, &log)
	if err != nil {
		t.Fatal(err)
	}
	if h.Handle(WM_KEYDOWN, Event{VKCode: VK_ESCAPE}) {
		t.Error("Handle reported success for a failed injection")
	}
	if len(log) != 1 {
		t.Fatalf("want one diagnostic, got %v", log)
	}
}

func TestNewHandlerRejectsSelfTrigger(t *testing.T) {
	triggers := append([]Trigger{}, defaultTriggers...)
	triggers = append(triggers, Trigger{Name: "NonConvert", VK: VK_NONCONVERT})
	_, err := newHandler(VK_NONCONVERT, triggers, fakeKeys{}, &fakeInjector{}, &lines{})
	if !errors.Is(err, ErrSelfTrigger) {
		t.Fatalf("err = %v, want ErrSelfTrigger", err)
	}
}

func TestNewHandlerRejectsZeroKey(t *testing.T) {
	if _, err := newHandler(0, defaultTriggers, fakeKeys{}, &fakeInjector{}, &lines{}); err == nil {
		t.Fatal("want error for zero synthesized key")
	}
}

func TestDefaultTriggersNeverMatchSynthesizedKey(t *testing.T) {
	for _, tr := range defaultTriggers {
		if tr.VK == VK_NONCONVERT {
			t.Errorf("trigger %s uses the synthesized key", tr)
		}
	}
}

func TestTriggerString(t *testing.T) {
	got := fmt.Sprint(defaultTriggers)
	if got != "[Esc Ctrl+C]" {
		t.Errorf("got %q", got)
	}
}
