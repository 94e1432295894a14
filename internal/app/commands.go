package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/gradebook/internal/engine"
)

const (
	minGrade = 0
	maxGrade = 100
)

// command is one REPL command.
type command struct {
	name    string
	aliases []string
	usage   string
	summary string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, s *Session, args []string) error
}

// commandTable maps command names and aliases to commands.
type commandTable struct {
	byName map[string]*command
	list   []*command
}

func newCommandTable() *commandTable {
	t := &commandTable{byName: make(map[string]*command)}
	for _, c := range builtinCommands() {
		t.register(c)
	}
	return t
}

func (t *commandTable) register(c *command) {
	t.byName[c.name] = c
	for _, a := range c.aliases {
		t.byName[a] = c
	}
	t.list = append(t.list, c)
}

// get returns the command for name or alias, or nil.
func (t *commandTable) get(name string) *command {
	return t.byName[name]
}

func builtinCommands() []*command {
	return []*command{
		{
			name: "add-student", usage: "add-student NAME", summary: "add a student with no grades",
			minArgs: 1, maxArgs: 1, run: cmdAddStudent,
		},
		{
			name: "add-grade", usage: "add-grade NAME GRADE", summary: "record a grade (0-100)",
			minArgs: 2, maxArgs: 2, run: cmdAddGrade,
		},
		{
			name: "remove", usage: "remove NAME", summary: "remove a student and all grades",
			minArgs: 1, maxArgs: 1, run: cmdRemove,
		},
		{
			name: "grades", usage: "grades NAME", summary: "show a student's grades",
			minArgs: 1, maxArgs: 1, run: cmdGrades,
		},
		{
			name: "average", usage: "average NAME", summary: "show a student's average",
			minArgs: 1, maxArgs: 1, run: cmdAverage,
		},
		{
			name: "letter", usage: "letter NAME", summary: "show a student's letter grade",
			minArgs: 1, maxArgs: 1, run: cmdLetter,
		},
		{
			name: "class", usage: "class", summary: "show the class average",
			run: cmdClass,
		},
		{
			name: "undo", usage: "undo", summary: "reverse the last grade or removal",
			run: cmdUndo,
		},
		{
			name: "history", usage: "history", summary: "list pending undo actions",
			run: cmdHistory,
		},
		{
			name: "log", usage: "log [N]", summary: "show recent activity, newest first",
			maxArgs: 1, run: cmdLog,
		},
		{
			name: "students", usage: "students", summary: "list students",
			run: cmdStudents,
		},
		{
			name: "run", usage: "run FILE", summary: "execute a Lua script",
			minArgs: 1, maxArgs: 1, run: cmdRun,
		},
		{
			name: "help", aliases: []string{"?"}, usage: "help", summary: "show this help",
			run: cmdHelp,
		},
		{
			name: "quit", aliases: []string{"exit"}, usage: "quit", summary: "leave the session",
			run: func(context.Context, *Session, []string) error { return ErrQuit },
		},
	}
}

func cmdAddStudent(_ context.Context, s *Session, args []string) error {
	name := args[0]
	if !s.gb.AddStudent(name) {
		s.printf("Student %s already exists", name)
		return nil
	}
	s.printf("Student added: %s", name)
	return nil
}

func cmdAddGrade(_ context.Context, s *Session, args []string) error {
	name := args[0]
	grade, err := parseGrade(args[1])
	if err != nil {
		return err
	}
	if !s.gb.AddGrade(name, grade) {
		s.printf("Student %s not found", name)
		return nil
	}
	s.printf("Added grade %d for %s", grade, name)
	return nil
}

// parseGrade accepts an integer in 0..100.
func parseGrade(arg string) (int, error) {
	grade, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, arg)
	}
	if grade < minGrade || grade > maxGrade {
		return 0, fmt.Errorf("%w: %d", ErrGradeRange, grade)
	}
	return grade, nil
}

func cmdRemove(_ context.Context, s *Session, args []string) error {
	name := args[0]
	if !s.gb.RemoveStudent(name) {
		s.printf("Student %s not found", name)
		return nil
	}
	s.printf("Removed student: %s", name)
	return nil
}

func cmdGrades(_ context.Context, s *Session, args []string) error {
	name := args[0]
	grades, ok := s.gb.FindStudentGrades(name)
	if !ok {
		s.printf("Student %s not found", name)
		return nil
	}
	if len(grades) == 0 {
		s.printf("%s: no grades", name)
		return nil
	}
	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = strconv.Itoa(g)
	}
	s.printf("%s: %s", name, strings.Join(parts, ", "))
	return nil
}

func cmdAverage(_ context.Context, s *Session, args []string) error {
	name := args[0]
	avg, ok := s.gb.AverageFor(name)
	if !ok {
		s.printf("No average for %s", name)
		return nil
	}
	s.printf("Average for %s: %s", name, s.formatAverage(avg))
	return nil
}

func cmdLetter(_ context.Context, s *Session, args []string) error {
	name := args[0]
	letter, ok := s.gb.LetterGradeFor(name)
	if !ok {
		s.printf("No letter grade for %s", name)
		return nil
	}
	s.printf("Letter grade for %s: %s", name, letter)
	return nil
}

func cmdClass(_ context.Context, s *Session, _ []string) error {
	avg, ok := s.gb.ClassAverage()
	if !ok {
		s.printf("No grades recorded")
		return nil
	}
	s.printf("Class average: %s", s.formatAverage(avg))
	return nil
}

func cmdUndo(_ context.Context, s *Session, _ []string) error {
	if !s.gb.Undo() {
		s.printf("Nothing to undo")
		return nil
	}
	s.printf("Undo performed")
	return nil
}

func cmdHistory(_ context.Context, s *Session, _ []string) error {
	pending := s.gb.UndoInfo()
	if len(pending) == 0 {
		s.printf("Nothing to undo")
		return nil
	}
	for i := len(pending) - 1; i >= 0; i-- {
		s.printf("%d. %s", len(pending)-i, pending[i].Description)
	}
	return nil
}

func cmdLog(_ context.Context, s *Session, args []string) error {
	n := s.Display().RecentLimit
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 0 {
			return fmt.Errorf("%w: log [N] with N >= 0", ErrUsage)
		}
		n = parsed
	}

	entries := s.gb.RecentEntries(n)
	if len(entries) == 0 {
		s.printf("No activity")
		return nil
	}
	for _, e := range entries {
		s.printf("%s  %s", formatEntryTime(e), e.Message)
	}
	return nil
}

func formatEntryTime(e engine.Entry) string {
	return e.Time.Format("2006-01-02 15:04:05")
}

func cmdStudents(_ context.Context, s *Session, _ []string) error {
	names := s.gb.Students()
	if len(names) == 0 {
		s.printf("No students")
		return nil
	}
	for _, n := range names {
		s.printf("%s", n)
	}
	return nil
}

func cmdRun(ctx context.Context, s *Session, args []string) error {
	if s.runner == nil {
		return ErrScriptingUnavailable
	}
	return s.runner.RunFile(ctx, args[0])
}

func cmdHelp(_ context.Context, s *Session, _ []string) error {
	cmds := make([]*command, len(s.commands.list))
	copy(cmds, s.commands.list)
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].name < cmds[j].name })

	s.printf("Commands:")
	for _, c := range cmds {
		s.printf("  %-22s %s", c.usage, c.summary)
	}
	s.printf("Names containing spaces may be quoted.")
	return nil
}

func (s *Session) formatAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', s.Display().Precision, 64)
}
