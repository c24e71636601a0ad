package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/lintbridge/internal/adapter"
	"github.com/dshills/lintbridge/internal/command"
	"github.com/dshills/lintbridge/internal/diag"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		jsonOutput bool
		failOn     string
	)

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Scan files once and print the findings",
		Long: "Run scans each file once with every adapter whose filetype scope\n" +
			"matches it, ignoring trigger modes and debouncing, waits for the\n" +
			"deliveries, and prints the collected findings.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failSev, err := parseFailOn(failOn)
			if err != nil {
				return err
			}

			delivered := make(chan struct{}, 1024)
			eng, err := buildEngine(opts, engineHooks{
				wrapPublisher: func(inner diag.Publisher) diag.Publisher {
					return &signalPublisher{inner: inner, ch: delivered}
				},
			})
			if err != nil {
				return err
			}
			defer eng.Close()

			targets, scans, err := planScans(eng, args)
			if err != nil {
				return err
			}

			for _, s := range scans {
				s.a.Scan(s.target)
			}
			awaitDeliveries(delivered, len(scans), waitBudget(opts.timeout))

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := renderJSON(out, eng.store, targets); err != nil {
					return err
				}
			} else {
				renderRun(out, eng.store, targets)
			}

			if failSev.Valid() {
				if n := countAtLeast(eng.store, targets, failSev); n > 0 {
					return fmt.Errorf("%d findings at or above %s", n, failSev)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit findings as JSON")
	cmd.Flags().StringVar(&failOn, "fail-on", "error", `exit nonzero at this severity or worse ("none" disables)`)
	return cmd
}

// signalPublisher forwards deliveries into the store and signals each
// one so run can wait for every expected delivery before rendering.
type signalPublisher struct {
	inner diag.Publisher
	ch    chan<- struct{}
}

func (p *signalPublisher) Publish(target string, records []diag.Record) {
	p.inner.Publish(target, records)
	select {
	case p.ch <- struct{}{}:
	default:
	}
}

// scanRequest pairs one adapter with one target it will scan.
type scanRequest struct {
	a      *adapter.Adapter
	target string
}

// planScans resolves the target list and the scans to issue. Disabled
// adapters and adapters whose tool cannot be resolved never deliver, so
// they are left out; waiting on them would only burn the budget.
func planScans(eng *engine, args []string) (targets []string, scans []scanRequest, err error) {
	for _, arg := range args {
		target, err := filepath.Abs(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("target %s: %w", arg, err)
		}
		if _, err := os.Stat(target); err != nil {
			return nil, nil, fmt.Errorf("target %s: %w", arg, err)
		}
		targets = append(targets, target)
	}

	resolvable := make(map[string]bool, len(eng.specs))
	for _, spec := range eng.specs {
		_, err := command.Resolve(spec.Executables())
		resolvable[spec.Name()] = err == nil
	}

	for _, target := range targets {
		ft := adapter.Filetype(target)
		for _, a := range eng.mgr.Adapters() {
			if a.Matches(ft) && a.Enabled() && resolvable[a.Name()] {
				scans = append(scans, scanRequest{a: a, target: target})
			}
		}
	}
	return targets, scans, nil
}

// awaitDeliveries blocks until done carries expected signals or the
// budget elapses.
func awaitDeliveries(done <-chan struct{}, expected int, budget time.Duration) {
	deadline := time.NewTimer(budget)
	defer deadline.Stop()

	for received := 0; received < expected; received++ {
		select {
		case <-done:
		case <-deadline.C:
			return
		}
	}
}

// waitBudget bounds how long run waits for deliveries: the tool
// deadline plus scheduling margin, or a flat minute when deadlines are
// disabled.
func waitBudget(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return time.Minute
	}
	return timeout + 5*time.Second
}

// renderRun prints each target's findings block and a closing tally.
func renderRun(out io.Writer, store *diag.Store, targets []string) {
	r := newRenderer(out)

	var errs, warns, infos, hints int
	shown := false
	for _, target := range targets {
		records := store.Get(target)
		if len(records) == 0 {
			continue
		}
		if shown {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, r.target(target, records))
		shown = true

		e, w, i, h := store.Counts(target)
		errs += e
		warns += w
		infos += i
		hints += h
	}

	if shown {
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, r.summary(errs, warns, infos, hints))
}

// runReport is the machine-readable output of one run.
type runReport struct {
	Targets []targetReport `json:"targets"`
}

type targetReport struct {
	Path    string        `json:"path"`
	Records []diag.Record `json:"records"`
}

func renderJSON(w io.Writer, store *diag.Store, targets []string) error {
	report := runReport{Targets: make([]targetReport, 0, len(targets))}
	for _, target := range targets {
		records := store.Get(target)
		if records == nil {
			records = []diag.Record{}
		}
		report.Targets = append(report.Targets, targetReport{Path: target, Records: records})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// parseFailOn parses the --fail-on flag; "none" disables the gate and
// returns the zero severity.
func parseFailOn(s string) (diag.Severity, error) {
	if s == "" || s == "none" {
		return 0, nil
	}
	sev, ok := diag.ParseSeverity(s)
	if !ok {
		return 0, fmt.Errorf("invalid --fail-on severity %q", s)
	}
	return sev, nil
}

func countAtLeast(store *diag.Store, targets []string, threshold diag.Severity) int {
	n := 0
	for _, target := range targets {
		for _, rec := range store.Get(target) {
			if rec.Severity.AtLeast(threshold) {
				n++
			}
		}
	}
	return n
}
