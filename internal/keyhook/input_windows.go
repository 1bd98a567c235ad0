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
	"unsafe"
)

//revive:disable:var-naming
const (
	INPUT_KEYBOARD  = 1
	KEYEVENTF_KEYUP = 0x0002
)

//revive:enable:var-naming

type KEYBDINPUT struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type INPUT struct {
	Type uint32
	_    uint32 // explicit padding for 64-bit alignment
	Ki   KEYBDINPUT
	_    [8]byte // the union is sized by MOUSEINPUT (32 bytes), not KEYBDINPUT (24)
}

type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

func assertStructSizes() error {
	const (
		expectedINPUT      = 40
		expectedKEYBDINPUT = 24
	)
	if unsafe.Sizeof(uintptr(0)) != 8 {
		return fmt.Errorf("keyhook: INPUT layout is only defined for 64-bit windows, pointer size is %d", unsafe.Sizeof(uintptr(0)))
	}
	if got := unsafe.Sizeof(INPUT{}); got != expectedINPUT {
		return fmt.Errorf("keyhook: INPUT size mismatch: %d, want %d", got, expectedINPUT)
	}
	if got := unsafe.Sizeof(KEYBDINPUT{}); got != expectedKEYBDINPUT {
		return fmt.Errorf("keyhook: KEYBDINPUT size mismatch: %d, want %d", got, expectedKEYBDINPUT)
	}
	return nil
}

// tapInputs builds a down/up pair for vk, both stamped with InjectedTag.
func tapInputs(vk uint16) [2]INPUT {
	return [2]INPUT{
		{
			Type: INPUT_KEYBOARD,
			Ki:   KEYBDINPUT{WVk: vk, DwExtraInfo: InjectedTag},
		},
		{
			Type: INPUT_KEYBOARD,
			Ki:   KEYBDINPUT{WVk: vk, DwFlags: KEYEVENTF_KEYUP, DwExtraInfo: InjectedTag},
		},
	}
}

// sendInput injects tagged key taps through SendInput.
type sendInput struct{}

func (sendInput) Tap(vk uint16) error {
	inputs := tapInputs(vk)
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if n != uintptr(len(inputs)) {
		return fmt.Errorf("SendInput inserted %d of %d events: %w", n, len(inputs), err)
	}
	return nil
}

// asyncKeyState reads GetAsyncKeyState. The high bit means "down now".
type asyncKeyState struct{}

func (asyncKeyState) Down(vk uint16) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}
