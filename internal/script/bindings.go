package script

import (
	lua "github.com/yuin/gopher-lua"
)

// registerGradebook installs the global gradebook table.
func (r *Runner) registerGradebook() {
	fns := map[string]lua.LGFunction{
		"add_student":    r.luaAddStudent,
		"add_grade":      r.luaAddGrade,
		"remove_student": r.luaRemoveStudent,
		"grades":         r.luaGrades,
		"average":        r.luaAverage,
		"letter":         r.luaLetter,
		"class_average":  r.luaClassAverage,
		"undo":           r.luaUndo,
		"recent_log":     r.luaRecentLog,
		"students":       r.luaStudents,
	}
	r.L.SetGlobal("gradebook", r.L.SetFuncs(r.L.NewTable(), fns))
}

func (r *Runner) luaAddStudent(L *lua.LState) int {
	r.charge(L)
	L.Push(lua.LBool(r.gb.AddStudent(L.CheckString(1))))
	return 1
}

func (r *Runner) luaAddGrade(L *lua.LState) int {
	r.charge(L)
	name := L.CheckString(1)
	n := L.CheckNumber(2)
	grade := int(n)
	if lua.LNumber(grade) != n {
		L.ArgError(2, "grade must be an integer")
		return 0
	}
	L.Push(lua.LBool(r.gb.AddGrade(name, grade)))
	return 1
}

func (r *Runner) luaRemoveStudent(L *lua.LState) int {
	r.charge(L)
	L.Push(lua.LBool(r.gb.RemoveStudent(L.CheckString(1))))
	return 1
}

func (r *Runner) luaGrades(L *lua.LState) int {
	r.charge(L)
	grades, ok := r.gb.FindStudentGrades(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	t := L.CreateTable(len(grades), 0)
	for _, g := range grades {
		t.Append(lua.LNumber(g))
	}
	L.Push(t)
	return 1
}

func (r *Runner) luaAverage(L *lua.LState) int {
	r.charge(L)
	avg, ok := r.gb.AverageFor(L.CheckString(1))
	pushOptionalNumber(L, avg, ok)
	return 1
}

func (r *Runner) luaLetter(L *lua.LState) int {
	r.charge(L)
	letter, ok := r.gb.LetterGradeFor(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(letter))
	return 1
}

func (r *Runner) luaClassAverage(L *lua.LState) int {
	r.charge(L)
	avg, ok := r.gb.ClassAverage()
	pushOptionalNumber(L, avg, ok)
	return 1
}

func (r *Runner) luaUndo(L *lua.LState) int {
	r.charge(L)
	L.Push(lua.LBool(r.gb.Undo()))
	return 1
}

func (r *Runner) luaRecentLog(L *lua.LState) int {
	r.charge(L)
	lines := r.gb.RecentLog(L.OptInt(1, 10))
	L.Push(stringTable(L, lines))
	return 1
}

func (r *Runner) luaStudents(L *lua.LState) int {
	r.charge(L)
	L.Push(stringTable(L, r.gb.Students()))
	return 1
}

func pushOptionalNumber(L *lua.LState, v float64, ok bool) {
	if !ok {
		L.Push(lua.LNil)
		return
	}
	L.Push(lua.LNumber(v))
}

func stringTable(L *lua.LState, values []string) *lua.LTable {
	t := L.CreateTable(len(values), 0)
	for _, v := range values {
		t.Append(lua.LString(v))
	}
	return t
}
