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

// Package instance enforces single-instance execution with a named mutex.
package instance

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning means another process already created the mutex. It is
// the expected outcome for a second launch, not a fault.
var ErrAlreadyRunning = errors.New("instance: another instance is already running")

// Scope selects the kernel object namespace of the mutex name.
type Scope int

const (
	ScopeSession Scope = iota // one instance per logon session
	ScopeMachine              // one instance across all sessions
)

// Prefix returns the kernel namespace prefix for s.
func (s Scope) Prefix() string {
	switch s {
	case ScopeSession:
		return `Local\`
	case ScopeMachine:
		return `Global\`
	default:
		panic(fmt.Sprintf("instance: unhandled Scope value: %d", s))
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopeMachine:
		return "machine"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}
