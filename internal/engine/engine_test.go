package engine

import (
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

const tolerance = 0.01

func assertAverage(t *testing.T, what string, got float64, ok bool, want float64) {
	t.Helper()
	if !ok {
		t.Fatalf("%s absent, want %v", what, want)
	}
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// ============================================================================
// Students
// ============================================================================

func TestAddStudentCreatesEmptyGrades(t *testing.T) {
	g := New()
	if !g.AddStudent("Alice") {
		t.Fatal("AddStudent(Alice) = false")
	}
	grades, ok := g.FindStudentGrades("Alice")
	if !ok || len(grades) != 0 {
		t.Errorf("FindStudentGrades(Alice) = %v, %v; want empty, true", grades, ok)
	}
}

func TestAddStudentDuplicate(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	logLen := g.LogLen()

	if g.AddStudent("Alice") {
		t.Error("duplicate AddStudent should return false")
	}
	grades, _ := g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(grades, []int{90}) {
		t.Errorf("grades = %v, want [90]", grades)
	}
	if g.LogLen() != logLen {
		t.Error("failed AddStudent must not log")
	}
}

func TestAddStudentMultiple(t *testing.T) {
	g := New()
	names := []string{"Alice", "Bob", "Charlie"}
	for _, n := range names {
		if !g.AddStudent(n) {
			t.Fatalf("AddStudent(%q) = false", n)
		}
	}
	for _, n := range names {
		if _, ok := g.FindStudentGrades(n); !ok {
			t.Errorf("FindStudentGrades(%q) missing", n)
		}
	}
	if got := g.Students(); !reflect.DeepEqual(got, names) {
		t.Errorf("Students() = %v, want %v", got, names)
	}
}

func TestFindStudentGradesUnknown(t *testing.T) {
	g := New()
	if _, ok := g.FindStudentGrades("Nonexistent"); ok {
		t.Error("FindStudentGrades of unknown student should be absent")
	}
}

// ============================================================================
// Grades
// ============================================================================

func TestAddGrade(t *testing.T) {
	g := New()
	g.AddStudent("Alice")

	for _, grade := range []int{90, 85, 95, 0, 100} {
		if !g.AddGrade("Alice", grade) {
			t.Fatalf("AddGrade(Alice, %d) = false", grade)
		}
	}
	grades, _ := g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(grades, []int{90, 85, 95, 0, 100}) {
		t.Errorf("grades = %v", grades)
	}
}

func TestAddGradeUnknownStudent(t *testing.T) {
	g := New()
	if g.AddGrade("Bob", 85) {
		t.Error("AddGrade for unknown student should return false")
	}
	if g.LogLen() != 0 {
		t.Errorf("LogLen() = %d, want 0", g.LogLen())
	}
	if g.UndoCount() != 0 {
		t.Errorf("UndoCount() = %d, want 0", g.UndoCount())
	}
}

func TestFindStudentGradesIsCopy(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)

	grades, _ := g.FindStudentGrades("Alice")
	grades[0] = 0

	again, _ := g.FindStudentGrades("Alice")
	if again[0] != 90 {
		t.Errorf("internal state mutated through returned slice: %v", again)
	}
}

// ============================================================================
// Removal
// ============================================================================

func TestRemoveStudent(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddStudent("Bob")
	g.AddGrade("Alice", 90)
	g.AddGrade("Bob", 85)

	if !g.RemoveStudent("Alice") {
		t.Fatal("RemoveStudent(Alice) = false")
	}
	if _, ok := g.FindStudentGrades("Alice"); ok {
		t.Error("Alice should be gone")
	}
	bob, ok := g.FindStudentGrades("Bob")
	if !ok || !reflect.DeepEqual(bob, []int{85}) {
		t.Errorf("Bob = %v, %v; want [85], true", bob, ok)
	}
}

func TestRemoveStudentUnknown(t *testing.T) {
	g := New()
	if g.RemoveStudent("Bob") {
		t.Error("RemoveStudent of unknown student should return false")
	}
	if g.LogLen() != 0 || g.UndoCount() != 0 {
		t.Error("failed RemoveStudent must not log or push undo")
	}
}

// ============================================================================
// Analytics
// ============================================================================

func TestAverageFor(t *testing.T) {
	tests := []struct {
		name   string
		grades []int
		want   float64
	}{
		{"one grade", []int{90}, 90},
		{"several", []int{90, 80, 70}, 80},
		{"fractional", []int{85, 90, 88}, 87.666667},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.AddStudent("S")
			for _, grade := range tt.grades {
				g.AddGrade("S", grade)
			}
			avg, ok := g.AverageFor("S")
			assertAverage(t, "AverageFor(S)", avg, ok, tt.want)
		})
	}
}

func TestAverageForAbsent(t *testing.T) {
	g := New()
	if _, ok := g.AverageFor("Bob"); ok {
		t.Error("AverageFor unknown student should be absent")
	}
	g.AddStudent("Alice")
	if _, ok := g.AverageFor("Alice"); ok {
		t.Error("AverageFor student without grades should be absent")
	}
	if _, ok := g.LetterGradeFor("Bob"); ok {
		t.Error("LetterGradeFor unknown student should be absent")
	}
	if _, ok := g.LetterGradeFor("Alice"); ok {
		t.Error("LetterGradeFor student without grades should be absent")
	}
}

func TestLetterGradeFor(t *testing.T) {
	tests := []struct {
		name   string
		grades []int
		want   string
	}{
		{"A range", []int{90, 100}, "A"},
		{"B range", []int{80, 89}, "B"},
		{"C range", []int{70, 79}, "C"},
		{"D range", []int{60, 69}, "D"},
		{"F range", []int{50, 59}, "F"},
		{"exactly 90", []int{90}, "A"},
		{"exactly 89", []int{89}, "B"},
		{"exactly 79", []int{79}, "C"},
		{"exactly 69", []int{69}, "D"},
		{"exactly 59", []int{59}, "F"},
		{"89.5 truncates", []int{89, 90}, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.AddStudent("S")
			for _, grade := range tt.grades {
				g.AddGrade("S", grade)
			}
			got, ok := g.LetterGradeFor("S")
			if !ok || got != tt.want {
				t.Errorf("LetterGradeFor() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestClassAverage(t *testing.T) {
	g := New()
	if _, ok := g.ClassAverage(); ok {
		t.Error("ClassAverage with no students should be absent")
	}

	g.AddStudent("Alice")
	g.AddStudent("Bob")
	if _, ok := g.ClassAverage(); ok {
		t.Error("ClassAverage with no grades should be absent")
	}

	g.AddGrade("Alice", 100)
	avg, ok := g.ClassAverage()
	assertAverage(t, "ClassAverage()", avg, ok, 100)

	g.AddGrade("Bob", 80)
	g.AddGrade("Bob", 90)
	g.AddGrade("Bob", 70)
	// (100+80+90+70)/4, not the mean of per-student means
	avg, ok = g.ClassAverage()
	assertAverage(t, "ClassAverage()", avg, ok, 85)
}

// ============================================================================
// Undo
// ============================================================================

func TestUndoEmpty(t *testing.T) {
	g := New()
	if g.Undo() {
		t.Error("Undo on empty history should return false")
	}
	if g.LogLen() != 0 {
		t.Error("failed Undo must not log")
	}
}

func TestUndoDoesNotReverseAddStudent(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddStudent("Bob")

	if g.Undo() {
		t.Error("AddStudent must not be undoable")
	}
	if got := g.Students(); !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Errorf("Students() = %v", got)
	}
	if g.LogLen() != 2 {
		t.Errorf("LogLen() = %d, want 2", g.LogLen())
	}
}

func TestUndoAddGrade(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.AddGrade("Alice", 85)
	g.AddGrade("Alice", 95)

	if !g.Undo() {
		t.Fatal("Undo() = false")
	}
	grades, _ := g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(grades, []int{90, 85}) {
		t.Errorf("after one undo = %v, want [90 85]", grades)
	}

	g.Undo()
	grades, _ = g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(grades, []int{90}) {
		t.Errorf("after two undos = %v, want [90]", grades)
	}
}

func TestUndoRemoveStudent(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.AddGrade("Alice", 85)
	g.RemoveStudent("Alice")

	if !g.Undo() {
		t.Fatal("Undo() = false")
	}
	grades, ok := g.FindStudentGrades("Alice")
	if !ok || !reflect.DeepEqual(grades, []int{90, 85}) {
		t.Errorf("restored = %v, %v; want [90 85], true", grades, ok)
	}
}

func TestUndoChain(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.AddGrade("Alice", 85)
	g.RemoveStudent("Alice")

	steps := []struct {
		want []int
	}{
		{[]int{90, 85}},
		{[]int{90}},
		{[]int{}},
	}
	for i, step := range steps {
		if !g.Undo() {
			t.Fatalf("Undo() #%d = false", i)
		}
		grades, ok := g.FindStudentGrades("Alice")
		if !ok || !reflect.DeepEqual(grades, step.want) {
			t.Errorf("after undo #%d = %v, %v; want %v", i, grades, ok, step.want)
		}
	}
	if g.Undo() {
		t.Error("nothing should be left to undo")
	}
}

func TestUndoRestoredStudentIsIndependent(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.RemoveStudent("Alice")
	g.Undo()

	// Grade added after restore, then removed again: the restore action for
	// this second removal must reflect the new sequence only.
	g.AddGrade("Alice", 70)
	g.RemoveStudent("Alice")
	g.Undo()

	grades, _ := g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(grades, []int{90, 70}) {
		t.Errorf("grades = %v, want [90 70]", grades)
	}

	g.Undo() // drops 70
	grades, _ = g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(grades, []int{90}) {
		t.Errorf("grades = %v, want [90]", grades)
	}
}

func TestUndoGuardedRemoveLastGrade(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.AddStudent("Bob")
	g.AddGrade("Bob", 60)

	// Pop Bob's grade, leaving Alice untouched.
	g.Undo()
	alice, _ := g.FindStudentGrades("Alice")
	if !reflect.DeepEqual(alice, []int{90}) {
		t.Errorf("Alice = %v, want [90]", alice)
	}
	bob, _ := g.FindStudentGrades("Bob")
	if len(bob) != 0 {
		t.Errorf("Bob = %v, want []", bob)
	}
}

func TestPeekAndUndoInfo(t *testing.T) {
	g := New()
	if _, ok := g.PeekUndo(); ok {
		t.Error("PeekUndo on empty history should be false")
	}
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.RemoveStudent("Alice")

	info, ok := g.PeekUndo()
	if !ok || info.Description != "Restore student Alice with 1 grade(s)" {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}
	if n := len(g.UndoInfo()); n != 2 {
		t.Errorf("len(UndoInfo()) = %d, want 2", n)
	}
	if g.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", g.UndoCount())
	}
}

// ============================================================================
// Activity Log
// ============================================================================

func TestRecentLogMessages(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)
	g.AddStudent("Bob")
	g.RemoveStudent("Bob")
	g.Undo()

	want := []string{
		"Undo performed",
		"Removed student: Bob",
		"Student added: Bob",
		"Name:Alice ,added Grade:90",
		"Student added: Alice",
	}
	if got := g.RecentLog(10); !reflect.DeepEqual(got, want) {
		t.Errorf("RecentLog(10) = %v, want %v", got, want)
	}
	if got := g.RecentLog(2); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("RecentLog(2) = %v, want %v", got, want[:2])
	}
	if got := g.RecentLog(0); len(got) != 0 {
		t.Errorf("RecentLog(0) = %v, want empty", got)
	}
}

func TestRecentLogInitiallyEmpty(t *testing.T) {
	g := New()
	got := g.RecentLog(10)
	if got == nil || len(got) != 0 {
		t.Errorf("RecentLog(10) = %#v, want empty non-nil", got)
	}
}

func TestRecentLogLimit(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	for range 20 {
		g.AddGrade("Alice", 90)
	}
	if got := g.RecentLog(5); len(got) != 5 {
		t.Errorf("len(RecentLog(5)) = %d, want 5", len(got))
	}
	if got := g.RecentLog(100); len(got) != 21 {
		t.Errorf("len(RecentLog(100)) = %d, want 21", len(got))
	}
}

func TestRecentEntries(t *testing.T) {
	g := New()
	g.AddStudent("Alice")
	g.AddGrade("Alice", 90)

	entries := g.RecentEntries(10)
	if len(entries) != 2 {
		t.Fatalf("len(RecentEntries) = %d, want 2", len(entries))
	}
	if !strings.Contains(entries[0].Message, "90") {
		t.Errorf("newest entry = %q", entries[0].Message)
	}
	if entries[0].Time.Before(entries[1].Time) {
		t.Error("entries not newest first")
	}
}

// ============================================================================
// Integration
// ============================================================================

func TestFullWorkflow(t *testing.T) {
	g := New(WithLogger(zap.NewNop()))

	for _, n := range []string{"Alice", "Bob", "Charlie"} {
		if !g.AddStudent(n) {
			t.Fatalf("AddStudent(%q) = false", n)
		}
	}
	grades := []struct {
		name  string
		grade int
	}{
		{"Alice", 95}, {"Alice", 90}, {"Bob", 85}, {"Bob", 80}, {"Charlie", 70},
	}
	for _, gr := range grades {
		if !g.AddGrade(gr.name, gr.grade) {
			t.Fatalf("AddGrade(%q, %d) = false", gr.name, gr.grade)
		}
	}

	avg, ok := g.AverageFor("Alice")
	assertAverage(t, "AverageFor(Alice)", avg, ok, 92.5)
	avg, ok = g.AverageFor("Bob")
	assertAverage(t, "AverageFor(Bob)", avg, ok, 82.5)
	avg, ok = g.AverageFor("Charlie")
	assertAverage(t, "AverageFor(Charlie)", avg, ok, 70)

	for name, want := range map[string]string{"Alice": "A", "Bob": "B", "Charlie": "C"} {
		if got, _ := g.LetterGradeFor(name); got != want {
			t.Errorf("LetterGradeFor(%s) = %q, want %q", name, got, want)
		}
	}

	avg, ok = g.ClassAverage()
	assertAverage(t, "ClassAverage()", avg, ok, 84)

	if !g.Undo() {
		t.Fatal("Undo() = false")
	}
	avg, ok = g.ClassAverage()
	assertAverage(t, "ClassAverage() after undo", avg, ok, 87.5)

	if !g.RemoveStudent("Bob") {
		t.Fatal("RemoveStudent(Bob) = false")
	}
	avg, ok = g.ClassAverage()
	assertAverage(t, "ClassAverage() after remove", avg, ok, 92.5)

	if !g.Undo() {
		t.Fatal("Undo() = false")
	}
	bob, ok := g.FindStudentGrades("Bob")
	if !ok || !reflect.DeepEqual(bob, []int{85, 80}) {
		t.Errorf("Bob = %v, %v; want [85 80], true", bob, ok)
	}

	if len(g.RecentLog(20)) == 0 {
		t.Error("log should not be empty")
	}
}

func TestConcurrentAccess(t *testing.T) {
	g := New()
	g.AddStudent("Alice")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				g.AddGrade("Alice", 80)
				_, _ = g.AverageFor("Alice")
				_ = g.RecentLog(3)
			}
		}()
	}
	wg.Wait()

	grades, _ := g.FindStudentGrades("Alice")
	if len(grades) != 800 {
		t.Errorf("len(grades) = %d, want 800", len(grades))
	}
	if g.UndoCount() != 800 {
		t.Errorf("UndoCount() = %d, want 800", g.UndoCount())
	}
}
