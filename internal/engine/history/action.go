package history

import (
	"fmt"

	"github.com/dshills/gradebook/internal/engine/roster"
)

// Action describes how to reverse one prior roster mutation.
// The set of implementations is closed to this package.
type Action interface {
	// Description returns a human-readable description of the reversal.
	Description() string

	action()
}

// RemoveLastGrade reverses an appended grade.
type RemoveLastGrade struct {
	Student string
}

// Description returns a human-readable description.
func (a RemoveLastGrade) Description() string {
	return fmt.Sprintf("Remove last grade of %s", a.Student)
}

func (RemoveLastGrade) action() {}

// RestoreStudent reverses a student removal.
type RestoreStudent struct {
	Name   string
	Grades []int
}

// NewRestoreStudent captures a private copy of grades.
func NewRestoreStudent(name string, grades []int) RestoreStudent {
	captured := make([]int, len(grades))
	copy(captured, grades)
	return RestoreStudent{Name: name, Grades: captured}
}

// Description returns a human-readable description.
func (a RestoreStudent) Description() string {
	return fmt.Sprintf("Restore student %s with %d grade(s)", a.Name, len(a.Grades))
}

func (RestoreStudent) action() {}

// Apply reverses the action against r. It only touches the student named by
// the action. Returns false if the reversal found nothing to change, which
// can only happen for RemoveLastGrade when the student is gone or has no
// grades.
func Apply(r *roster.Roster, a Action) bool {
	switch act := a.(type) {
	case RemoveLastGrade:
		return r.TrimLastGrade(act.Student)
	case RestoreStudent:
		r.Restore(act.Name, act.Grades)
		return true
	default:
		return false
	}
}
