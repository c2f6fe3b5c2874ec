// Package completion holds the optimistic completion toggle: the displayed value
// flips immediately, then either the write confirms it or it rolls back.
package completion

import (
	"errors"
	"fmt"
	"sync"
)

type State string

const (
	StateIdle       State = "idle"
	StatePending    State = "pending"
	StateConfirmed  State = "confirmed"
	StateRolledBack State = "rolled_back"
)

var ErrInvalidTransition = errors.New("invalid completion transition")

// Toggle tracks one lesson's completion flag for one learner.
// A new Begin is only accepted once the previous one has settled.
type Toggle struct {
	mu        sync.Mutex
	state     State
	committed bool
	displayed bool
	lastErr   error
}

func NewToggle(committed bool) *Toggle {
	return &Toggle{state: StateIdle, committed: committed, displayed: committed}
}

// Begin shows want right away and moves to pending.
func (t *Toggle) Begin(want bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StatePending {
		return fmt.Errorf("%w: begin while pending", ErrInvalidTransition)
	}
	t.state = StatePending
	t.displayed = want
	t.lastErr = nil
	return nil
}

// Confirm accepts the server's stored value as the committed one.
func (t *Toggle) Confirm(stored bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, t.state)
	}
	t.state = StateConfirmed
	t.committed = stored
	t.displayed = stored
	return nil
}

// Fail restores the last committed value.
func (t *Toggle) Fail(cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, t.state)
	}
	t.state = StateRolledBack
	t.displayed = t.committed
	t.lastErr = cause
	return nil
}

func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Toggle) Displayed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.displayed
}

func (t *Toggle) Committed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

func (t *Toggle) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}
