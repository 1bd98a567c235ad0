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

package winprio

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// ProcessClass is the priority class requested for the whole process.
const ProcessClass uint32 = windows.ABOVE_NORMAL_PRIORITY_CLASS

// ThreadLevel is the priority requested for the calling thread.
const ThreadLevel int32 = 2 // THREAD_PRIORITY_HIGHEST

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadPriority = kernel32.NewProc("SetThreadPriority")
	procGetThreadPriority = kernel32.NewProc("GetThreadPriority")
)

// Raise sets the process priority class and the calling thread's priority,
// then reads both back. The caller should be locked to the thread that
// runs the hook. Failures are logged and returned; they are never fatal to
// the hook itself.
func Raise(log Logger) error {
	proc := windows.CurrentProcess()
	if err := windows.SetPriorityClass(proc, ProcessClass); err != nil {
		log.Logf("failed to set process priority class to 0x%x: %v", ProcessClass, err)
		return fmt.Errorf("SetPriorityClass: %w", err)
	}
	if got, err := windows.GetPriorityClass(proc); err != nil || got != ProcessClass {
		log.Logf("process priority mismatch: OS reports 0x%x instead of 0x%x (err: %v)", got, ProcessClass, err)
	} else {
		log.Logf("process priority class confirmed: 0x%x", got)
	}

	thread := windows.CurrentThread()
	r, _, err := procSetThreadPriority.Call(uintptr(thread), uintptr(ThreadLevel))
	if r == 0 {
		log.Logf("failed to set thread priority to %d: %v", ThreadLevel, err)
		return fmt.Errorf("SetThreadPriority: %w", err)
	}
	r, _, err = procGetThreadPriority.Call(uintptr(thread))
	if int32(r) == ThreadLevel {
		log.Logf("thread priority confirmed: %d", int32(r))
	} else {
		log.Logf("thread priority mismatch: OS reports %d instead of %d (err: %v)", int32(r), ThreadLevel, err)
	}
	return nil
}
