// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package processor

import "sync"

// ActionType tags an external command for the processor. The queue holds
// at most one action per type.
type ActionType int

// Action types understood by the processor.
const (
	ActionSetBreakpoint      ActionType = iota // install or clear the breakpoint
	ActionRaiseRST                             // request a reset interrupt
	ActionRaiseNMI                             // request a non-maskable interrupt
	ActionRaiseIRQ                             // request a maskable interrupt
	ActionSetMemory                            // store Value at Addr
	ActionKeyInput                             // store Value in the key input cell
	ActionMouseInput                           // store Value in the mouse input cell
	ActionCycleMode                            // On selects cycle-accurate pacing
	ActionIncrementOnInvalid                   // On makes invalid opcodes advance PC
	ActionIndexRegister                        // Value selects the active index register
	ActionSetBookmarks                         // replace the bookmark address set
)

// An Action is one external command for the processor. Actions are created
// by the caller, enqueued, and consumed exactly once. Which fields matter
// depends on Type; unused fields are ignored.
type Action struct {
	Type      ActionType
	Addr      uint16
	Value     uint16
	On        bool
	Break     Breakpoint
	Bookmarks []uint16
}

// actionQueue is a coalescing mailbox. Enqueuing removes any queued action
// of the same type first, so only the newest action per type survives to be
// applied.
type actionQueue struct {
	mu      sync.Mutex
	actions []Action
}

func (q *actionQueue) add(a Action) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.actions {
		if q.actions[i].Type == a.Type {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			break
		}
	}
	q.actions = append(q.actions, a)
}

func (q *actionQueue) drain() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()

	a := q.actions
	q.actions = nil
	return a
}
