package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dshills/lintbridge/internal/command"
	"github.com/dshills/lintbridge/internal/config"
	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/logging"
	"github.com/dshills/lintbridge/internal/parse"
	"github.com/dshills/lintbridge/internal/pipeline"
	"github.com/dshills/lintbridge/internal/runner"
)

// Adapter drives one external tool: it reacts to save and change
// triggers, debounces, runs the tool asynchronously, and publishes the
// transformed records. All methods are safe for concurrent use.
type Adapter struct {
	spec   Spec
	pub    diag.Publisher
	run    *runner.Runner
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	cfg       *config.Settings
	closed    bool
	known     map[string]struct{}
	pending   map[string]*time.Timer
	nextSeq   map[string]uint64
	delivered map[string]uint64

	// deliverMu serializes publishes so a slow scan cannot land after
	// a newer one, and so a disable retraction cannot interleave with
	// an in-flight delivery.
	deliverMu sync.Mutex
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger. The adapter name is attached
// as a field.
func WithLogger(logger *logging.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRunner sets the process runner, typically to share one timeout
// policy across adapters.
func WithRunner(run *runner.Runner) Option {
	return func(a *Adapter) {
		if run != nil {
			a.run = run
		}
	}
}

// WithSettings replaces the starting configuration. The adapter clones
// the value; later Setup calls merge on top of it.
func WithSettings(cfg *config.Settings) Option {
	return func(a *Adapter) {
		if cfg != nil {
			a.cfg = cfg.Clone()
		}
	}
}

// New creates an adapter for spec that publishes to pub.
func New(spec Spec, pub diag.Publisher, opts ...Option) (*Adapter, error) {
	if spec == nil {
		return nil, ErrInvalidSpec
	}
	if spec.Name() == "" || len(spec.Executables()) == 0 {
		return nil, ErrInvalidSpec
	}
	if pub == nil {
		return nil, ErrNoPublisher
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Adapter{
		spec:      spec,
		pub:       pub,
		run:       runner.New(),
		logger:    logging.Default(),
		ctx:       ctx,
		cancel:    cancel,
		cfg:       config.Defaults(),
		known:     make(map[string]struct{}),
		pending:   make(map[string]*time.Timer),
		nextSeq:   make(map[string]uint64),
		delivered: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithAdapter(spec.Name())
	return a, nil
}

// Name returns the adapter's name.
func (a *Adapter) Name() string {
	return a.spec.Name()
}

// Setup merges user overrides into the adapter's configuration. On
// error the configuration is left unchanged.
func (a *Adapter) Setup(overrides map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Merge(overrides)
}

// Config returns a snapshot of the current configuration.
func (a *Adapter) Config() *config.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Clone()
}

// Enabled reports whether the adapter reacts to triggers.
func (a *Adapter) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Enabled
}

// SetMinSeverity updates the severity floor for future scans.
func (a *Adapter) SetMinSeverity(s diag.Severity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.SetMinSeverity(s)
}

// Matches reports whether the adapter scopes itself to filetype. An
// empty filetype list matches everything.
func (a *Adapter) Matches(filetype string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.cfg.Filetypes) == 0 {
		return true
	}
	for _, ft := range a.cfg.Filetypes {
		if ft == filetype {
			return true
		}
	}
	return false
}

// Attach registers a target with the adapter, fires the attach
// callback, and scans immediately when run_on_setup is set.
func (a *Adapter) Attach(target string) {
	a.mu.Lock()
	a.known[target] = struct{}{}
	onAttach := a.cfg.OnAttach
	scanNow := a.cfg.RunOnSetup && a.cfg.Enabled
	a.mu.Unlock()

	if onAttach != nil {
		onAttach(target)
	}
	if scanNow {
		a.runScan(target)
	}
}

// HandleSave reacts to a save trigger. In on-save mode it scans
// immediately. In on-change mode it flushes a pending debounce, if
// any, into an immediate scan.
func (a *Adapter) HandleSave(target string) {
	a.mu.Lock()
	if !a.cfg.Enabled {
		a.mu.Unlock()
		return
	}
	a.known[target] = struct{}{}
	if a.cfg.RunMode == config.RunOnChange {
		timer, ok := a.pending[target]
		if ok {
			timer.Stop()
			delete(a.pending, target)
		}
		a.mu.Unlock()
		if ok {
			a.runScan(target)
		}
		return
	}
	a.mu.Unlock()
	a.runScan(target)
}

// HandleChange reacts to a change trigger in on-change mode. Each
// trigger restarts the debounce timer; the scan runs once the target
// has been quiet for the configured interval.
func (a *Adapter) HandleChange(target string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.cfg.Enabled || a.cfg.RunMode != config.RunOnChange {
		return
	}
	a.known[target] = struct{}{}
	if timer, ok := a.pending[target]; ok {
		timer.Stop()
	}
	a.pending[target] = time.AfterFunc(a.cfg.Debounce, func() {
		a.mu.Lock()
		delete(a.pending, target)
		a.mu.Unlock()
		a.runScan(target)
	})
}

// Flush cancels a pending debounce for target and scans immediately.
// It does nothing when no scan is pending.
func (a *Adapter) Flush(target string) {
	a.mu.Lock()
	timer, ok := a.pending[target]
	if ok {
		timer.Stop()
		delete(a.pending, target)
	}
	a.mu.Unlock()
	if ok {
		a.runScan(target)
	}
}

// Scan runs the tool against target right away, bypassing mode and
// debounce. Disabled adapters still ignore it.
func (a *Adapter) Scan(target string) {
	a.mu.Lock()
	a.known[target] = struct{}{}
	a.mu.Unlock()
	a.runScan(target)
}

// Toggle flips the enabled flag and returns the new state. Disabling
// cancels pending timers and retracts every known target's records;
// in-flight scans keep running but their results are discarded.
// Enabling does not rescan.
func (a *Adapter) Toggle() bool {
	a.mu.Lock()
	a.cfg.Enabled = !a.cfg.Enabled
	enabled := a.cfg.Enabled
	var targets []string
	if !enabled {
		for t := range a.known {
			targets = append(targets, t)
		}
		for t, timer := range a.pending {
			timer.Stop()
			delete(a.pending, t)
		}
	}
	a.mu.Unlock()

	if enabled {
		a.logger.Info("enabled")
		return true
	}
	a.logger.Info("disabled")
	sort.Strings(targets)
	a.deliverMu.Lock()
	for _, t := range targets {
		a.pub.Publish(t, nil)
	}
	a.deliverMu.Unlock()
	return false
}

// Close stops the adapter: pending timers are cancelled, in-flight
// processes are killed, and later triggers are ignored. Previously
// delivered records are left in place.
func (a *Adapter) Close() {
	a.mu.Lock()
	a.closed = true
	for t, timer := range a.pending {
		timer.Stop()
		delete(a.pending, t)
	}
	a.mu.Unlock()
	a.cancel()
}

// runScan resolves the executable, builds arguments against a
// configuration snapshot, and launches the tool. The snapshot rules
// the whole scan; concurrent Setup calls affect later scans only.
func (a *Adapter) runScan(target string) {
	a.mu.Lock()
	if a.closed || !a.cfg.Enabled {
		a.mu.Unlock()
		return
	}
	cfg := a.cfg.Clone()
	a.mu.Unlock()

	path, err := command.Resolve(a.spec.Executables())
	if err != nil {
		a.logger.Warn("scan skipped for %s: %v", target, err)
		return
	}

	args, err := a.spec.BuildArgs(cfg, target)
	if err != nil {
		a.logger.Error("building arguments for %s: %v", target, err)
		return
	}
	if len(cfg.ExtraArgs) > 0 {
		args = append(args, cfg.ExtraArgs...)
	}

	a.mu.Lock()
	a.nextSeq[target]++
	seq := a.nextSeq[target]
	a.mu.Unlock()

	cmd := command.Command{Path: path, Args: args}
	a.logger.Debug("scan %d for %s: %s", seq, target, cmd)
	a.run.Run(a.ctx, cmd, func(res runner.Result) {
		a.finishScan(target, seq, cfg, res)
	})
}

// finishScan parses and transforms a completed scan's output, then
// delivers the records unless a newer scan already has or the adapter
// was disabled in the meantime.
func (a *Adapter) finishScan(target string, seq uint64, cfg *config.Settings, res runner.Result) {
	tool := a.spec.Name()
	if res.Err != nil {
		a.logger.Warn("%s on %s: %v", tool, target, res.Err)
	}

	out, err := parse.Decode(res.Stdout)
	if err != nil {
		a.logger.Warn("unparseable output from %s on %s: %v", tool, target, err)
	}

	records, err := pipeline.Run(out, a.spec, cfg, tool)
	if err != nil {
		a.logger.Error("%v", err)
		return
	}

	a.deliverMu.Lock()
	defer a.deliverMu.Unlock()

	a.mu.Lock()
	deliver := !a.closed && a.cfg.Enabled && seq > a.delivered[target]
	if deliver {
		a.delivered[target] = seq
	}
	a.mu.Unlock()

	if !deliver {
		a.logger.Debug("discarding scan %d for %s", seq, target)
		return
	}
	a.pub.Publish(target, records)
}
