package adapter

import (
	"fmt"

	"github.com/dshills/lintbridge/internal/config"
	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/parse"
)

// Spec describes one external tool integration. Implementations are
// immutable after construction; the orchestrator calls them from scan
// goroutines without further locking.
type Spec interface {
	// Name uniquely identifies the adapter.
	Name() string

	// Executables lists command candidates in preference order.
	Executables() []string

	// BuildArgs produces the argument list for scanning file. Errors
	// propagate to the orchestrator, which aborts the trigger.
	BuildArgs(cfg *config.Settings, file string) ([]string, error)

	// ValidateResult reports whether a raw result is usable.
	ValidateResult(res parse.Result) bool

	// TransformResult maps an accepted raw result into a record.
	TransformResult(res parse.Result, cfg *config.Settings) (diag.Record, error)
}

// ArgsFunc builds a tool's argument list for one scan.
type ArgsFunc func(cfg *config.Settings, file string) ([]string, error)

// ValidateFunc reports whether a raw result is usable.
type ValidateFunc func(res parse.Result) bool

// TransformFunc maps a raw result into a record.
type TransformFunc func(res parse.Result, cfg *config.Settings) (diag.Record, error)

// Definition declares a tool integration as plain values. NewSpec
// validates it into a usable Spec.
type Definition struct {
	// Name uniquely identifies the adapter.
	Name string

	// Command lists executable candidates in preference order.
	Command []string

	// Args, Validate, and Transform are the integration's three
	// capabilities. All are required.
	Args      ArgsFunc
	Validate  ValidateFunc
	Transform TransformFunc

	// Severities translates tool-native severity labels. The engine
	// carries it for the transformer's use and never consults it.
	Severities diag.SeverityMap

	// DefaultSeverity fills records whose transform left severity
	// unset. Zero leaves them unset.
	DefaultSeverity diag.Severity
}

// NewSpec validates a definition. Name, at least one executable
// candidate, argument builder, validator, and transformer must all be
// present; construction fails otherwise.
func NewSpec(def Definition) (Spec, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidSpec)
	}
	if len(def.Command) == 0 {
		return nil, fmt.Errorf("%w: %s lists no executable candidates", ErrInvalidSpec, def.Name)
	}
	if def.Args == nil {
		return nil, fmt.Errorf("%w: %s has no argument builder", ErrInvalidSpec, def.Name)
	}
	if def.Validate == nil {
		return nil, fmt.Errorf("%w: %s has no result validator", ErrInvalidSpec, def.Name)
	}
	if def.Transform == nil {
		return nil, fmt.Errorf("%w: %s has no result transformer", ErrInvalidSpec, def.Name)
	}
	return &funcSpec{def: def}, nil
}

// funcSpec implements Spec over a validated Definition.
type funcSpec struct {
	def Definition
}

func (s *funcSpec) Name() string {
	return s.def.Name
}

func (s *funcSpec) Executables() []string {
	out := make([]string, len(s.def.Command))
	copy(out, s.def.Command)
	return out
}

func (s *funcSpec) BuildArgs(cfg *config.Settings, file string) ([]string, error) {
	return s.def.Args(cfg, file)
}

func (s *funcSpec) ValidateResult(res parse.Result) bool {
	return s.def.Validate(res)
}

func (s *funcSpec) TransformResult(res parse.Result, cfg *config.Settings) (diag.Record, error) {
	rec, err := s.def.Transform(res, cfg)
	if err != nil {
		return rec, err
	}
	if rec.Severity == 0 && s.def.DefaultSeverity != 0 {
		rec.Severity = s.def.DefaultSeverity
	}
	return rec, nil
}
