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

package msgloop

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestRunReturnsOnQuit(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		if err := l.Quit(); err != nil {
			t.Errorf("Quit: %v", err)
		}
	}()
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestQuitBeforeRun(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunReturnsOnContextDone(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Run took %v to notice cancellation", elapsed)
	}
}

func TestRunOffLoopThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	made := make(chan *Loop)
	release := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		l, err := New()
		if err != nil {
			t.Error(err)
			close(made)
			return
		}
		made <- l
		<-release
	}()
	l := <-made
	defer close(release)
	if l == nil {
		t.FailNow()
	}

	if l.ThreadID() == 0 {
		t.Fatal("ThreadID() = 0")
	}
	if err := l.Run(context.Background()); !errors.Is(err, ErrWrongThread) {
		t.Fatalf("Run err = %v, want ErrWrongThread", err)
	}
}
