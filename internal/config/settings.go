// Package config holds per-adapter settings: construction defaults,
// deep-merged user overrides, and the on-disk configuration file.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dshills/lintbridge/internal/diag"
)

// RunMode selects which trigger starts a scan.
type RunMode string

const (
	// RunOnSave scans when a target is saved.
	RunOnSave RunMode = "save"
	// RunOnChange scans as a target changes, debounced per target.
	RunOnChange RunMode = "change"
)

// ParseRunMode parses a run mode name.
func ParseRunMode(s string) (RunMode, bool) {
	switch RunMode(s) {
	case RunOnSave:
		return RunOnSave, true
	case RunOnChange:
		return RunOnChange, true
	default:
		return "", false
	}
}

// Settings configures one adapter. Values not set by the user come
// from Defaults.
type Settings struct {
	// Enabled gates all trigger handling.
	Enabled bool

	// Filetypes limits the adapter to matching targets. Empty means
	// every target.
	Filetypes []string

	// RunMode selects save- or change-triggered scanning.
	RunMode RunMode

	// Debounce is the quiet period before a change-triggered scan.
	Debounce time.Duration

	// MinSeverity is the least severe level kept after a scan,
	// inclusive. Zero keeps everything.
	MinSeverity diag.Severity

	// ExtraArgs are appended by argument builders that honor them.
	ExtraArgs []string

	// Options is the open bag of tool-specific settings. Argument
	// builders and transformers read from it; the engine only merges it.
	Options map[string]any

	// RunOnSetup triggers an immediate scan when a target attaches.
	RunOnSetup bool

	// OnAttach is invoked when a target attaches to the adapter.
	OnAttach func(target string)
}

// Defaults returns the settings every adapter starts from.
func Defaults() *Settings {
	return &Settings{
		Enabled:     true,
		RunMode:     RunOnSave,
		Debounce:    1000 * time.Millisecond,
		MinSeverity: diag.SeverityHint,
		Options:     make(map[string]any),
	}
}

// Clone returns a deep copy. Scans snapshot their settings at start so
// in-flight argument builders never observe concurrent mutation.
func (s *Settings) Clone() *Settings {
	out := *s
	if s.Filetypes != nil {
		out.Filetypes = make([]string, len(s.Filetypes))
		copy(out.Filetypes, s.Filetypes)
	}
	if s.ExtraArgs != nil {
		out.ExtraArgs = make([]string, len(s.ExtraArgs))
		copy(out.ExtraArgs, s.ExtraArgs)
	}
	out.Options = Clone(s.Options)
	return &out
}

// Merge applies user overrides on top of the current settings. Nested
// option maps merge recursively with the override side winning; scalars
// and lists replace wholesale. Unknown keys are tool-specific and land
// in Options. On error nothing is changed.
func (s *Settings) Merge(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	next := s.Clone()

	// Deterministic application order so the first bad key reported is
	// stable across runs.
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := next.applyOverride(key, overrides[key]); err != nil {
			return err
		}
	}

	*s = *next
	return nil
}

// applyOverride validates and applies a single override key.
func (s *Settings) applyOverride(key string, val any) error {
	switch key {
	case "enabled":
		b, ok := val.(bool)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a boolean"}
		}
		s.Enabled = b

	case "filetypes":
		list, ok := toStringSlice(val)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a list of strings"}
		}
		s.Filetypes = list

	case "run_mode":
		name, ok := val.(string)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a string"}
		}
		mode, ok := ParseRunMode(name)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: `expected "save" or "change"`}
		}
		s.RunMode = mode

	case "debounce":
		ms, ok := toInt(val)
		if !ok || ms < 0 {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a non-negative millisecond count"}
		}
		s.Debounce = time.Duration(ms) * time.Millisecond

	case "min_severity":
		sev, ok := toSeverity(val)
		if !ok {
			return &InvalidSeverityError{Value: val}
		}
		s.MinSeverity = sev

	case "extra_args":
		list, ok := toStringSlice(val)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a list of strings"}
		}
		s.ExtraArgs = list

	case "run_on_setup":
		b, ok := val.(bool)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a boolean"}
		}
		s.RunOnSetup = b

	case "options":
		m, ok := val.(map[string]any)
		if !ok {
			return &InvalidValueError{Key: key, Value: val, Reason: "expected a table"}
		}
		s.Options = DeepMerge(s.Options, m)

	default:
		// Tool-specific key; keep it in the open bag.
		s.Options = DeepMerge(s.Options, map[string]any{key: val})
	}
	return nil
}

// SetMinSeverity sets the severity threshold, rejecting values outside
// the defined range without touching the current setting.
func (s *Settings) SetMinSeverity(sev diag.Severity) error {
	if !sev.Valid() {
		return &InvalidSeverityError{Value: int(sev)}
	}
	s.MinSeverity = sev
	return nil
}

// Describe returns a stable, human-readable listing of every
// non-function setting, one per line.
func (s *Settings) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "enabled: %t\n", s.Enabled)
	fmt.Fprintf(&b, "filetypes: %s\n", describeList(s.Filetypes, "(all)"))
	fmt.Fprintf(&b, "run_mode: %s\n", s.RunMode)
	fmt.Fprintf(&b, "debounce: %s\n", s.Debounce)
	fmt.Fprintf(&b, "min_severity: %s\n", s.MinSeverity)
	fmt.Fprintf(&b, "extra_args: %s\n", describeList(s.ExtraArgs, "(none)"))
	fmt.Fprintf(&b, "run_on_setup: %t\n", s.RunOnSetup)

	if len(s.Options) > 0 {
		flat := FlattenMap(s.Options)
		keys := make([]string, 0, len(flat))
		for key := range flat {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "options.%s: %v\n", key, flat[key])
		}
	}
	return b.String()
}

func describeList(list []string, empty string) string {
	if len(list) == 0 {
		return empty
	}
	return strings.Join(list, ", ")
}

// toStringSlice accepts both []string and TOML/Lua-shaped []any lists.
func toStringSlice(val any) ([]string, bool) {
	switch v := val.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// toInt accepts the integer shapes decoders produce.
func toInt(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// toSeverity accepts severity ordinals and names.
func toSeverity(val any) (diag.Severity, bool) {
	switch v := val.(type) {
	case string:
		return diag.ParseSeverity(v)
	default:
		n, ok := toInt(val)
		if !ok {
			return 0, false
		}
		sev := diag.Severity(n)
		if !sev.Valid() {
			return 0, false
		}
		return sev, true
	}
}
