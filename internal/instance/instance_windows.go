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

package instance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// Guard holds the named mutex for the lifetime of the process.
type Guard struct {
	name   string
	handle windows.Handle
}

// Acquire creates the mutex scope.Prefix()+name with initial ownership.
// It returns ErrAlreadyRunning if the mutex existed before the call and a
// wrapped OS error if no handle could be obtained at all, for example when
// the name belongs to an object of another type or a Global\ mutex was
// created by an elevated process.
func Acquire(name string, scope Scope) (*Guard, error) {
	full := scope.Prefix() + name
	namePtr, err := windows.UTF16PtrFromString(full)
	if err != nil {
		return nil, fmt.Errorf("instance: mutex name %q: %w", full, err)
	}

	h, err := windows.CreateMutex(nil, true, namePtr)
	if h == 0 {
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) && scope == ScopeMachine {
			return nil, fmt.Errorf("instance: CreateMutex(%q): %w (likely held by an elevated instance)", full, err)
		}
		return nil, fmt.Errorf("instance: CreateMutex(%q): %w", full, err)
	}
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		// We opened someone else's mutex; we do not own it.
		_ = windows.CloseHandle(h)
		return nil, ErrAlreadyRunning
	}
	return &Guard{name: full, handle: h}, nil
}

// Name returns the full kernel object name, prefix included.
func (g *Guard) Name() string { return g.name }

// Release gives up ownership and closes the handle so the next launch can
// acquire it. Calling it again does nothing. Mutex ownership is per OS
// thread, so ReleaseMutex only succeeds on the thread that called Acquire;
// the handle is closed either way.
func (g *Guard) Release() error {
	if g.handle == 0 {
		return nil
	}
	h := g.handle
	g.handle = 0

	var errs []error
	if err := windows.ReleaseMutex(h); err != nil {
		errs = append(errs, fmt.Errorf("ReleaseMutex: %w", err))
	}
	if err := windows.CloseHandle(h); err != nil {
		errs = append(errs, fmt.Errorf("CloseHandle: %w", err))
	}
	return errors.Join(errs...)
}
