package script

import (
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lintbridge/internal/config"
	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/parse"
)

// Spec is a tool integration defined by a Lua script. It satisfies
// the adapter's spec contract; its capabilities call back into the
// script's functions, serialized on one interpreter.
type Spec struct {
	st *state

	name            string
	command         []string
	filetypes       []string
	defaultSeverity diag.Severity
	severities      diag.SeverityMap

	argsFn      *lua.LFunction
	validateFn  *lua.LFunction
	transformFn *lua.LFunction
}

// Load reads a spec script from path. The script must return a table
// with name, command (a name or an ordered list of candidates; the
// key executable works too), and the args, validate, and transform
// functions; default_severity, severity_map, and filetypes are
// optional.
func Load(path string) (*Spec, error) {
	st := newState()
	table, err := st.load(func(L *lua.LState) error { return L.DoFile(path) })
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	spec, err := build(st, table)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return spec, nil
}

// LoadString reads a spec script from source code.
func LoadString(code string) (*Spec, error) {
	st := newState()
	table, err := st.load(func(L *lua.LState) error { return L.DoString(code) })
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	spec, err := build(st, table)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return spec, nil
}

// LoadDir loads every *.lua file in dir. On error the specs loaded so
// far are closed and the error names the failing file.
func LoadDir(dir string) ([]*Spec, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, err
	}
	specs := make([]*Spec, 0, len(paths))
	for _, path := range paths {
		spec, err := Load(path)
		if err != nil {
			for _, s := range specs {
				_ = s.Close()
			}
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// build validates the returned table and captures its fields.
func build(st *state, t *lua.LTable) (*Spec, error) {
	spec := &Spec{st: st}
	err := st.do(func(L *lua.LState) error {
		b := &bridge{L: L}

		spec.name = stringField(t, "name")
		if spec.name == "" {
			return fmt.Errorf("%w: missing name", ErrInvalidScript)
		}

		cmdVal := t.RawGetString("command")
		if cmdVal == lua.LNil {
			cmdVal = t.RawGetString("executable")
		}
		cmd, err := candidatesFrom(b, cmdVal)
		if err != nil || len(cmd) == 0 {
			return fmt.Errorf("%w: %s needs a command name or list", ErrInvalidScript, spec.name)
		}
		spec.command = cmd

		if ft := t.RawGetString("filetypes"); ft != lua.LNil {
			list, err := b.stringsFrom(ft)
			if err != nil {
				return fmt.Errorf("%w: %s filetypes: %v", ErrInvalidScript, spec.name, err)
			}
			spec.filetypes = list
		}

		if ds := t.RawGetString("default_severity"); ds != lua.LNil {
			s, err := severityFrom(ds, nil)
			if err != nil {
				return fmt.Errorf("%w: %s default_severity: %v", ErrInvalidScript, spec.name, err)
			}
			spec.defaultSeverity = s
		}

		if sm, ok := t.RawGetString("severity_map").(*lua.LTable); ok {
			spec.severities = make(diag.SeverityMap)
			var mapErr error
			sm.ForEach(func(k, v lua.LValue) {
				if mapErr != nil {
					return
				}
				s, err := severityFrom(v, nil)
				if err != nil {
					mapErr = fmt.Errorf("%w: %s severity_map[%s]: %v", ErrInvalidScript, spec.name, k.String(), err)
					return
				}
				spec.severities[k.String()] = s
			})
			if mapErr != nil {
				return mapErr
			}
		}

		for _, fn := range []struct {
			key string
			dst **lua.LFunction
		}{
			{"args", &spec.argsFn},
			{"validate", &spec.validateFn},
			{"transform", &spec.transformFn},
		} {
			f, ok := t.RawGetString(fn.key).(*lua.LFunction)
			if !ok {
				return fmt.Errorf("%w: %s missing %s function", ErrInvalidScript, spec.name, fn.key)
			}
			*fn.dst = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// candidatesFrom reads the executable candidates: a single name or an
// ordered list of them.
func candidatesFrom(b *bridge, lv lua.LValue) ([]string, error) {
	if s, ok := lv.(lua.LString); ok {
		return []string{string(s)}, nil
	}
	return b.stringsFrom(lv)
}

// Name returns the adapter name declared by the script.
func (s *Spec) Name() string {
	return s.name
}

// Executables lists the script's command candidates.
func (s *Spec) Executables() []string {
	out := make([]string, len(s.command))
	copy(out, s.command)
	return out
}

// Filetypes lists the filetype scope the script declared, if any.
func (s *Spec) Filetypes() []string {
	out := make([]string, len(s.filetypes))
	copy(out, s.filetypes)
	return out
}

// BuildArgs calls the script's args function with a context table
// carrying file, options, extra_args, and min_severity.
func (s *Spec) BuildArgs(cfg *config.Settings, file string) ([]string, error) {
	var args []string
	err := s.st.do(func(L *lua.LState) error {
		b := &bridge{L: L}
		ret, err := callLua(L, s.argsFn, b.contextTable(cfg, file))
		if err != nil {
			return err
		}
		list, err := b.stringsFrom(ret)
		if err != nil {
			return fmt.Errorf("args must return a string list: %w", err)
		}
		args = list
		return nil
	})
	return args, err
}

// ValidateResult calls the script's validate function. Lua errors
// count as rejection.
func (s *Spec) ValidateResult(res parse.Result) bool {
	valid := false
	err := s.st.do(func(L *lua.LState) error {
		b := &bridge{L: L}
		ret, err := callLua(L, s.validateFn, b.resultToLua(res))
		if err != nil {
			return err
		}
		valid = !lua.LVIsFalse(ret)
		return nil
	})
	return err == nil && valid
}

// TransformResult calls the script's transform function and maps the
// returned table into a record, applying the script's severity map
// and default severity.
func (s *Spec) TransformResult(res parse.Result, cfg *config.Settings) (diag.Record, error) {
	var rec diag.Record
	err := s.st.do(func(L *lua.LState) error {
		b := &bridge{L: L}
		ret, err := callLua(L, s.transformFn, b.resultToLua(res), b.contextTable(cfg, ""))
		if err != nil {
			return err
		}
		t, ok := ret.(*lua.LTable)
		if !ok {
			return fmt.Errorf("transform must return a table, got %s", ret.Type())
		}
		r, err := b.recordFrom(t, s.severities, s.defaultSeverity)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	return rec, err
}

// Close releases the script's interpreter.
func (s *Spec) Close() error {
	return s.st.Close()
}
