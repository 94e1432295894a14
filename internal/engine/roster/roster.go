// Package roster holds the authoritative student-name-to-grades store.
//
// A Roster maps each student name to an ordered, possibly empty, sequence of
// integer grades. Names are case-sensitive and unique. A student exists if and
// only if it has a grade sequence; an empty sequence is still a student.
//
// Grade slices never leave the Roster by reference: readers receive copies and
// Restore stores a copy, so callers can mutate what they hold freely.
package roster

import "sort"

// Roster is the student store. The zero value is not usable; call New.
//
// Roster is not safe for concurrent use. The engine facade serializes access.
type Roster struct {
	students map[string][]int
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{
		students: make(map[string][]int),
	}
}

// Add creates a student with an empty grade sequence.
// Returns false if the name is already present.
func (r *Roster) Add(name string) bool {
	if _, ok := r.students[name]; ok {
		return false
	}
	r.students[name] = []int{}
	return true
}

// Has reports whether the student exists.
func (r *Roster) Has(name string) bool {
	_, ok := r.students[name]
	return ok
}

// AppendGrade appends a grade to the student's sequence.
// Returns false if the student does not exist.
func (r *Roster) AppendGrade(name string, grade int) bool {
	grades, ok := r.students[name]
	if !ok {
		return false
	}
	r.students[name] = append(grades, grade)
	return true
}

// TrimLastGrade removes the most recently appended grade.
// Returns false if the student does not exist or has no grades.
func (r *Roster) TrimLastGrade(name string) bool {
	grades, ok := r.students[name]
	if !ok || len(grades) == 0 {
		return false
	}
	r.students[name] = grades[:len(grades)-1]
	return true
}

// Remove deletes the student and returns a copy of its grades.
// Returns false if the student does not exist.
func (r *Roster) Remove(name string) ([]int, bool) {
	grades, ok := r.students[name]
	if !ok {
		return nil, false
	}
	delete(r.students, name)
	return clone(grades), true
}

// Restore inserts the student with a copy of the given grades, replacing any
// existing sequence for that name.
func (r *Roster) Restore(name string, grades []int) {
	r.students[name] = clone(grades)
}

// Grades returns a copy of the student's grades.
func (r *Roster) Grades(name string) ([]int, bool) {
	grades, ok := r.students[name]
	if !ok {
		return nil, false
	}
	return clone(grades), true
}

// Names returns all student names in lexical order.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.students))
	for name := range r.students {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of students.
func (r *Roster) Len() int {
	return len(r.students)
}

// Totals returns the sum and count of every grade of every student.
func (r *Roster) Totals() (sum, count int) {
	for _, grades := range r.students {
		for _, g := range grades {
			sum += g
		}
		count += len(grades)
	}
	return sum, count
}

// clone returns an independent copy that is never nil.
func clone(grades []int) []int {
	out := make([]int, len(grades))
	copy(out, grades)
	return out
}
