package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/gradebook/internal/engine/activity"
	"github.com/dshills/gradebook/internal/engine/grading"
	"github.com/dshills/gradebook/internal/engine/history"
	"github.com/dshills/gradebook/internal/engine/roster"
)

// Re-export commonly used types for convenience.
type (
	// Entry is a single activity log record.
	Entry = activity.Entry

	// ActionInfo describes a pending undo action.
	ActionInfo = history.ActionInfo
)

// Activity log messages.
const (
	msgStudentAdded   = "Student added: %s"
	msgGradeAdded     = "Name:%s ,added Grade:%d"
	msgStudentRemoved = "Removed student: %s"
	msgUndo           = "Undo performed"
)

// Gradebook is the facade over roster, undo history and activity log.
type Gradebook struct {
	mu sync.RWMutex

	roster  *roster.Roster
	history *history.Stack
	log     *activity.Log

	logger *zap.Logger
}

// New creates an empty gradebook.
func New(opts ...Option) *Gradebook {
	g := &Gradebook{
		roster:  roster.New(),
		history: history.NewStack(),
		log:     activity.New(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ============================================================================
// Mutations
// ============================================================================

// AddStudent creates a student with no grades.
// Returns false if the name is already present. Not undoable.
func (g *Gradebook) AddStudent(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.roster.Add(name) {
		g.logger.Debug("student already exists", zap.String("student", name))
		return false
	}
	g.record(fmt.Sprintf(msgStudentAdded, name))
	return true
}

// AddGrade appends a grade to an existing student.
// Returns false if the student is unknown.
func (g *Gradebook) AddGrade(name string, grade int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.roster.AppendGrade(name, grade) {
		g.logger.Debug("grade for unknown student",
			zap.String("student", name),
			zap.Int("grade", grade))
		return false
	}
	g.history.Push(history.RemoveLastGrade{Student: name})
	g.record(fmt.Sprintf(msgGradeAdded, name, grade))
	return true
}

// RemoveStudent deletes a student and all its grades.
// Returns false if the student is unknown.
func (g *Gradebook) RemoveStudent(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed, ok := g.roster.Remove(name)
	if !ok {
		g.logger.Debug("remove of unknown student", zap.String("student", name))
		return false
	}
	g.history.Push(history.NewRestoreStudent(name, removed))
	g.record(fmt.Sprintf(msgStudentRemoved, name))
	return true
}

// Undo reverses the most recent undoable mutation.
// Returns false if there is nothing to undo.
func (g *Gradebook) Undo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	action, err := g.history.Pop()
	if err != nil {
		g.logger.Debug("undo rejected", zap.Error(err))
		return false
	}
	if !history.Apply(g.roster, action) {
		g.logger.Debug("undo action found nothing to reverse",
			zap.String("action", action.Description()))
	}
	g.record(msgUndo)
	return true
}

// record appends to the activity log. Caller must hold the write lock.
func (g *Gradebook) record(message string) {
	e := g.log.Record(message)
	g.logger.Debug("activity recorded",
		zap.Stringer("id", e.ID),
		zap.String("message", message),
		zap.Int("undo_depth", g.history.Len()))
}

// ============================================================================
// Queries
// ============================================================================

// FindStudentGrades returns a copy of the student's grades.
func (g *Gradebook) FindStudentGrades(name string) ([]int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roster.Grades(name)
}

// AverageFor returns the mean of the student's grades.
// Absent if the student is unknown or has no grades.
func (g *Gradebook) AverageFor(name string) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.averageLocked(name)
}

func (g *Gradebook) averageLocked(name string) (float64, bool) {
	grades, ok := g.roster.Grades(name)
	if !ok {
		return 0, false
	}
	return grading.Mean(grades)
}

// LetterGradeFor returns the letter for the student's average.
// Absent under the same conditions as AverageFor.
func (g *Gradebook) LetterGradeFor(name string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	avg, ok := g.averageLocked(name)
	if !ok {
		return "", false
	}
	return grading.LetterFor(avg), true
}

// ClassAverage returns the mean of every grade of every student.
// Absent if there are no grades at all.
func (g *Gradebook) ClassAverage() (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return grading.MeanOfTotals(g.roster.Totals())
}

// RecentLog returns up to maxItems log messages, newest first.
func (g *Gradebook) RecentLog(maxItems int) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.log.Recent(maxItems)
}

// RecentEntries returns up to maxItems full log entries, newest first.
func (g *Gradebook) RecentEntries(maxItems int) []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.log.Entries(maxItems)
}

// LogLen returns the number of activity log entries.
func (g *Gradebook) LogLen() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.log.Len()
}

// Students returns all student names in lexical order.
func (g *Gradebook) Students() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roster.Names()
}

// UndoCount returns the number of pending undo actions.
func (g *Gradebook) UndoCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.history.Len()
}

// PeekUndo describes the next undo action without applying it.
func (g *Gradebook) PeekUndo() (ActionInfo, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.history.Peek()
}

// UndoInfo describes every pending undo action, oldest first.
func (g *Gradebook) UndoInfo() []ActionInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.history.Info()
}
