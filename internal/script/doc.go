// Package script runs Lua scripts against a gradebook.
//
// Scripts see a global table named gradebook whose functions mirror the
// engine operations:
//
//	gradebook.add_student("Alice")
//	gradebook.add_grade("Alice", 95)
//	print(gradebook.average("Alice"))   -- 95
//	print(gradebook.letter("Alice"))    -- A
//	gradebook.undo()
//	for _, line in ipairs(gradebook.recent_log(5)) do print(line) end
//
// Queries that find nothing return nil. Mutations return booleans.
//
// The Lua state is sandboxed: io, os, debug and package are not opened and
// dofile, loadfile, load, loadstring and require are removed. print writes to
// the runner's output. Each run is bounded by a timeout and by a budget of
// gradebook calls.
//
// gopher-lua's LState is not goroutine-safe; Runner serializes runs.
package script
