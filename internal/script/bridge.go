package script

import (
	"fmt"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lintbridge/internal/config"
	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/parse"
)

// bridge converts values between Go and a Lua interpreter. All
// methods must run with the owning state's lock held.
type bridge struct {
	L *lua.LState
}

// resultToLua mirrors a raw JSON result as a Lua value. Objects and
// arrays become tables, scalars their Lua counterparts.
func (b *bridge) resultToLua(res parse.Result) lua.LValue {
	switch {
	case res.IsArray():
		t := b.L.NewTable()
		for i, item := range res.Array() {
			t.RawSetInt(i+1, b.resultToLua(item))
		}
		return t
	case res.IsObject():
		t := b.L.NewTable()
		res.ForEach(func(key, value parse.Result) bool {
			t.RawSetString(key.String(), b.resultToLua(value))
			return true
		})
		return t
	case res.Type == gjson.String:
		return lua.LString(res.Str)
	case res.Type == gjson.Number:
		return lua.LNumber(res.Num)
	case res.Type == gjson.True:
		return lua.LTrue
	case res.Type == gjson.False:
		return lua.LFalse
	default:
		return lua.LNil
	}
}

// contextTable builds the ctx argument handed to script functions.
func (b *bridge) contextTable(cfg *config.Settings, file string) *lua.LTable {
	ctx := b.L.NewTable()
	if file != "" {
		ctx.RawSetString("file", lua.LString(file))
	}
	if cfg == nil {
		return ctx
	}
	if cfg.MinSeverity.Valid() {
		ctx.RawSetString("min_severity", lua.LString(cfg.MinSeverity.String()))
	}
	if len(cfg.ExtraArgs) > 0 {
		ctx.RawSetString("extra_args", b.toLua(cfg.ExtraArgs))
	}
	if len(cfg.Options) > 0 {
		ctx.RawSetString("options", b.toLua(cfg.Options))
	}
	return ctx
}

// toLua converts a plain Go value to a Lua value.
func (b *bridge) toLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := b.L.NewTable()
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	case []any:
		t := b.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, b.toLua(item))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		for k, item := range val {
			t.RawSetString(k, b.toLua(item))
		}
		return t
	default:
		return lua.LNil
	}
}

// toGo converts a Lua value back to a plain Go value. Cycles are
// broken by dropping the repeated table.
func (b *bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	default:
		return nil
	}
}

func (b *bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	if n := t.Len(); n > 0 {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}
	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = b.toGo(v, visited)
	})
	return m
}

// stringsFrom reads a Lua array of strings (numbers are formatted).
func (b *bridge) stringsFrom(lv lua.LValue) ([]string, error) {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a table, got %s", lv.Type())
	}
	out := make([]string, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		switch v := t.RawGetInt(i).(type) {
		case lua.LString:
			out = append(out, string(v))
		case lua.LNumber:
			out = append(out, v.String())
		default:
			return nil, fmt.Errorf("element %d is %s, want a string", i, v.Type())
		}
	}
	return out, nil
}

// severityFrom reads a severity given by name or ordinal.
func severityFrom(lv lua.LValue, severities diag.SeverityMap) (diag.Severity, error) {
	switch v := lv.(type) {
	case lua.LNumber:
		s := diag.Severity(int(v))
		if !s.Valid() {
			return 0, &config.InvalidSeverityError{Value: int(v)}
		}
		return s, nil
	case lua.LString:
		name := string(v)
		if s, ok := diag.ParseSeverity(name); ok {
			return s, nil
		}
		if s := severities.Map(name, 0); s != 0 {
			return s, nil
		}
		return 0, &config.InvalidSeverityError{Value: name}
	default:
		return 0, &config.InvalidSeverityError{Value: lv.String()}
	}
}

// recordFrom maps a transform's returned table into a record.
// Severity falls back to the spec default when the table leaves it
// out.
func (b *bridge) recordFrom(t *lua.LTable, severities diag.SeverityMap, fallback diag.Severity) (diag.Record, error) {
	rec := diag.NewRecord(
		intField(t, "lnum", 0),
		intField(t, "col", 0),
		stringField(t, "message"),
	)
	rec.EndLnum = intField(t, "end_lnum", rec.EndLnum)
	rec.EndCol = intField(t, "end_col", rec.EndCol)
	rec.Source = stringField(t, "source")

	if sev := t.RawGetString("severity"); sev != lua.LNil {
		s, err := severityFrom(sev, severities)
		if err != nil {
			return rec, err
		}
		rec.Severity = s
	} else {
		rec.Severity = fallback
	}

	if ud := t.RawGetString("user_data"); ud != lua.LNil {
		rec.UserData = b.toGo(ud, make(map[*lua.LTable]bool))
	}
	return rec, nil
}

func intField(t *lua.LTable, key string, def int) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

func stringField(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}
