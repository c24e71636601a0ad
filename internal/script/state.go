package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// state wraps one gopher-lua interpreter. LState is not
// goroutine-safe, so every entry point holds the mutex; a script's
// capabilities are thereby serialized even when scans overlap.
type state struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// newState creates a sandboxed interpreter: only the base, table,
// string, and math libraries are opened, and code-loading functions
// are removed.
func newState() *state {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, and package stay closed. Loading further code
	// from inside a script is removed as well.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return &state{L: L}
}

// do runs fn with the interpreter lock held, recovering panics from
// the Lua runtime into errors.
func (s *state) do(fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn(s.L)
}

// load executes a chunk and returns the table it returned.
func (s *state) load(run func(L *lua.LState) error) (*lua.LTable, error) {
	var table *lua.LTable
	err := s.do(func(L *lua.LState) error {
		top := L.GetTop()
		if err := run(L); err != nil {
			L.SetTop(top)
			return err
		}
		var ret lua.LValue = lua.LNil
		if L.GetTop() > top {
			ret = L.Get(top + 1)
		}
		L.SetTop(top)
		t, ok := ret.(*lua.LTable)
		if !ok {
			return ErrNoTable
		}
		table = t
		return nil
	})
	return table, err
}

// Close releases the interpreter. Later calls return ErrStateClosed.
func (s *state) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// callLua invokes fn with args and returns its first result. The
// caller must hold the state lock (run inside do).
func callLua(L *lua.LState, fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	top := L.GetTop()
	L.Push(fn)
	for _, a := range args {
		L.Push(a)
	}
	if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
		L.SetTop(top)
		return lua.LNil, err
	}
	var ret lua.LValue = lua.LNil
	if L.GetTop() > top {
		ret = L.Get(top + 1)
	}
	L.SetTop(top)
	return ret, nil
}
