// Package history provides undo for the gradebook engine.
//
// Every mutation that can be reversed pushes one Action onto a Stack. An
// Action is plain data describing how to reverse a single prior mutation;
// it holds no references into live roster state.
//
// # Actions
//
// Two variants exist:
//   - RemoveLastGrade: drops the most recent grade of a student
//   - RestoreStudent: reinserts a removed student with its captured grades
//
// Adding a student never produces an Action.
//
// # Stack
//
// The Stack is strictly last-in-first-out with no redo:
//
//	stack := history.NewStack()
//	stack.Push(history.RemoveLastGrade{Student: "Alice"})
//
//	action, err := stack.Pop()
//	if errors.Is(err, history.ErrNothingToUndo) {
//	    // nothing to undo
//	}
//	history.Apply(r, action)
//
// A popped action is discarded for good.
package history
