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

package main

import (
	"time"

	"github.com/workturnedplay/imeoffhook/internal/instance"
)

// The name matches the C++ IMEOFFHOOK launcher so the two never run side by
// side and tap twice per key.
const (
	mutexName  = "BEHOLD_IMEOFFHOOK_DLL_MUTEX_BY_SILLTE_AND_MIU_INOUE"
	mutexScope = instance.ScopeSession
)

//revive:disable:var-naming
const (
	CTRL_C_EVENT     = 0
	CTRL_BREAK_EVENT = 1
	CTRL_CLOSE_EVENT = 2
)

//revive:enable:var-naming

// closeWait bounds how long a close event holds the console handler open.
// Windows terminates the process about 5s after CTRL_CLOSE_EVENT anyway.
const closeWait = 4 * time.Second

// ctrlResponder answers console control events by stopping the message
// loop. On a close event Windows ends the process as soon as the handler
// returns, so it waits for main to report that teardown finished.
type ctrlResponder struct {
	quit func() error
	done <-chan struct{}
	wait time.Duration
}

func (c *ctrlResponder) handle(ctrlType uint32) uintptr {
	switch ctrlType {
	case CTRL_C_EVENT, CTRL_BREAK_EVENT:
		if c.quit() == nil {
			return 1
		}
	case CTRL_CLOSE_EVENT:
		if c.quit() != nil {
			return 0
		}
		select {
		case <-c.done:
		case <-time.After(c.wait):
		}
		return 1
	}
	return 0
}
