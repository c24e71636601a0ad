// Package pipeline turns decoded tool output into diagnostic records:
// validate each raw result, transform the accepted ones, default the
// source to the tool name, and apply the configured severity threshold.
// Output order follows input order, restricted to surviving elements.
package pipeline

import (
	"fmt"

	"github.com/dshills/lintbridge/internal/config"
	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/parse"
)

// Transformer is the capability a specification contributes to the
// pipeline: recognizing the results it understands and mapping them
// into records.
type Transformer interface {
	// ValidateResult reports whether a raw result is usable. Results it
	// rejects are skipped without comment.
	ValidateResult(res parse.Result) bool

	// TransformResult maps an accepted raw result into a record. An
	// error here is an integration bug and aborts the scan.
	TransformResult(res parse.Result, cfg *config.Settings) (diag.Record, error)
}

// Run processes decoded output in order and returns the surviving
// records. A transformer error propagates with nothing delivered;
// masking it would hide a broken integration behind an empty result.
func Run(out parse.Output, tr Transformer, cfg *config.Settings, tool string) ([]diag.Record, error) {
	var records []diag.Record
	for i, item := range out.Items {
		if !tr.ValidateResult(item) {
			continue
		}

		rec, err := tr.TransformResult(item, cfg)
		if err != nil {
			return nil, fmt.Errorf("transform result %d from %s: %w", i, tool, err)
		}

		if rec.Source == "" {
			rec.Source = tool
		}

		if !keep(rec, cfg) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// keep applies the severity threshold. With a threshold configured,
// only records whose severity is set and at least that severe survive;
// without one, everything survives regardless of severity.
func keep(rec diag.Record, cfg *config.Settings) bool {
	if cfg == nil || cfg.MinSeverity == 0 {
		return true
	}
	return rec.Severity.AtLeast(cfg.MinSeverity)
}
