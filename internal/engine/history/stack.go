package history

import (
	"errors"
	"time"
)

// ErrNothingToUndo is returned by Pop on an empty stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// entry wraps an action with metadata.
type entry struct {
	action    Action
	timestamp time.Time
}

// ActionInfo describes a pending undo action.
type ActionInfo struct {
	Description string
	Timestamp   time.Time
}

// Stack is a last-in-first-out stack of undo actions.
//
// Stack is not safe for concurrent use.
type Stack struct {
	entries []entry
	now     func() time.Time
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{now: time.Now}
}

// Push adds an action to the top of the stack.
func (s *Stack) Push(a Action) {
	s.entries = append(s.entries, entry{
		action:    a,
		timestamp: s.now(),
	})
}

// Pop removes and returns the most recently pushed action.
func (s *Stack) Pop() (Action, error) {
	if len(s.entries) == 0 {
		return nil, ErrNothingToUndo
	}
	top := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return top.action, nil
}

// Peek returns info about the next action without removing it.
func (s *Stack) Peek() (ActionInfo, bool) {
	if len(s.entries) == 0 {
		return ActionInfo{}, false
	}
	top := s.entries[len(s.entries)-1]
	return ActionInfo{
		Description: top.action.Description(),
		Timestamp:   top.timestamp,
	}, true
}

// Len returns the number of pending actions.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Info returns all pending actions, oldest first.
func (s *Stack) Info() []ActionInfo {
	result := make([]ActionInfo, len(s.entries))
	for i, e := range s.entries {
		result[i] = ActionInfo{
			Description: e.action.Description(),
			Timestamp:   e.timestamp,
		}
	}
	return result
}
