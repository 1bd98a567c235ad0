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

// Package msgloop owns a thread's Win32 message queue. Low-level hooks are
// called from inside GetMessage on the thread that installed them, so a
// Loop is the event pump a hook's host must keep running.
package msgloop

import "errors"

// ErrWrongThread is returned by Run when called from a thread other than
// the one that created the Loop.
var ErrWrongThread = errors.New("msgloop: Run called off the loop thread")
