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
	"testing"
	"unsafe"
)

func TestTapInputs(t *testing.T) {
	inputs := tapInputs(VK_NONCONVERT)

	if got := unsafe.Sizeof(inputs[0]); got != 40 {
		t.Fatalf("sizeof(INPUT) = %d, want 40", got)
	}
	for i, in := range inputs {
		if in.Type != INPUT_KEYBOARD {
			t.Errorf("inputs[%d].Type = %d, want INPUT_KEYBOARD", i, in.Type)
		}
		if in.Ki.WVk != VK_NONCONVERT {
			t.Errorf("inputs[%d].WVk = 0x%02X, want 0x%02X", i, in.Ki.WVk, VK_NONCONVERT)
		}
		if in.Ki.DwExtraInfo != InjectedTag {
			t.Errorf("inputs[%d].DwExtraInfo = 0x%X, want InjectedTag", i, in.Ki.DwExtraInfo)
		}
	}
	if inputs[0].Ki.DwFlags&KEYEVENTF_KEYUP != 0 {
		t.Error("inputs[0] is a key-up, want key-down first")
	}
	if inputs[1].Ki.DwFlags&KEYEVENTF_KEYUP == 0 {
		t.Error("inputs[1] lacks KEYEVENTF_KEYUP")
	}
}

// The events the injector produces must come back through the hook
// without triggering another injection.
func TestTapInputsDoNotRetrigger(t *testing.T) {
	h, inj := newTestHandler(t, fakeKeys{VK_CONTROL: true})
	for _, vk := range []uint16{VK_ESCAPE, VK_C, VK_NONCONVERT} {
		for _, in := range tapInputs(vk) {
			msg := uintptr(WM_KEYDOWN)
			if in.Ki.DwFlags&KEYEVENTF_KEYUP != 0 {
				msg = WM_KEYUP
			}
			ev := Event{VKCode: uint32(in.Ki.WVk), Flags: LLKHF_INJECTED, ExtraInfo: in.Ki.DwExtraInfo}
			if h.Handle(msg, ev) {
				t.Errorf("injected vk 0x%02X re-triggered the hook", vk)
			}
		}
	}
	if len(inj.taps) != 0 {
		t.Fatalf("taps = %v, want none", inj.taps)
	}
}

func TestAsyncKeyStateUnheldKey(t *testing.T) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		t.Fatal(err)
	}
	// 0xFF is reserved and never reported as held.
	if (asyncKeyState{}).Down(0xFF) {
		t.Error("Down(0xFF) = true")
	}
}
