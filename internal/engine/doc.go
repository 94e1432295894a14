// Package engine provides the in-memory gradebook.
//
// The Gradebook facade owns three cooperating structures:
//
//   - roster: student name to ordered grades
//   - history: LIFO stack of undo actions
//   - activity: newest-first log of mutation descriptions
//
// Every successful mutation changes the roster, pushes at most one undo
// action and records exactly one activity entry. Failed preconditions change
// nothing and record nothing. Queries touch only the roster.
//
// # Basic Usage
//
//	gb := engine.New()
//	gb.AddStudent("Alice")
//	gb.AddGrade("Alice", 95)
//	gb.AddGrade("Alice", 88)
//
//	avg, ok := gb.AverageFor("Alice")   // 91.5, true
//	letter, _ := gb.LetterGradeFor("Alice") // "A"
//
//	gb.Undo() // drops the 88
//
//	for _, line := range gb.RecentLog(10) {
//	    fmt.Println(line)
//	}
//
// # Undo
//
// AddGrade and RemoveStudent are undoable; AddStudent is not. Undo itself is
// logged but pushes nothing, and there is no redo.
//
// # Thread Safety
//
// One mutex guards the whole roster, history and log triple. Each public
// call takes it once, so mutations and undos never interleave.
//
// # Letter Grades
//
// The average is truncated to an integer before banding, so 89.5 is a B.
package engine
