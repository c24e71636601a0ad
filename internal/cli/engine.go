package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/lintbridge/internal/adapter"
	"github.com/dshills/lintbridge/internal/config"
	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/logging"
	"github.com/dshills/lintbridge/internal/runner"
	"github.com/dshills/lintbridge/internal/script"
)

var errNoSpecs = errors.New("no adapters loaded; pass --spec with a Lua spec file or directory")

// engine bundles what every subcommand needs: the loaded configuration
// file, the Lua specs, and the adapter manager wired to a record store.
type engine struct {
	file  *config.File
	store *diag.Store
	mgr   *adapter.Manager
	specs []*script.Spec
}

// engineHooks lets a command observe deliveries without changing how
// adapters publish.
type engineHooks struct {
	// wrapPublisher wraps each adapter's store publisher.
	wrapPublisher func(inner diag.Publisher) diag.Publisher

	// onChange is invoked with a target's merged records after every
	// delivery that changes the target.
	onChange func(target string, records []diag.Record)

	// baseOverrides seed every adapter's settings; spec-declared scopes
	// and the configuration file still win over them.
	baseOverrides map[string]any
}

// buildEngine loads configuration and specs and registers one adapter
// per spec.
func buildEngine(opts *rootOptions, hooks engineHooks) (*engine, error) {
	file, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.Default()
	switch {
	case opts.logLevel != "":
		logger.SetLevel(logging.ParseLogLevel(opts.logLevel))
	case file.LogLevel != "":
		logger.SetLevel(logging.ParseLogLevel(file.LogLevel))
	}

	specs, err := loadSpecs(opts.specPaths)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, errNoSpecs
	}

	var storeOpts []diag.StoreOption
	if hooks.onChange != nil {
		storeOpts = append(storeOpts, diag.WithChangeHandler(hooks.onChange))
	}
	store := diag.NewStore(storeOpts...)

	mgrOpts := []adapter.ManagerOption{
		adapter.WithStore(store),
		adapter.WithManagerLogger(logger),
		adapter.WithManagerRunner(runner.New(
			runner.WithTimeout(opts.timeout),
			runner.WithLogger(logger),
		)),
	}
	if hooks.wrapPublisher != nil {
		mgrOpts = append(mgrOpts, adapter.WithPublisherFactory(func(name string) diag.Publisher {
			return hooks.wrapPublisher(store.Scoped(name))
		}))
	}

	eng := &engine{
		file:  file,
		store: store,
		mgr:   adapter.NewManager(mgrOpts...),
		specs: specs,
	}
	for _, spec := range specs {
		overrides := mergeOverrides(hooks.baseOverrides, specOverrides(spec), file.Overrides(spec.Name()))
		if _, err := eng.mgr.Register(spec, overrides); err != nil {
			eng.Close()
			return nil, err
		}
	}
	return eng, nil
}

// Close shuts the adapters down and releases every spec's Lua state.
func (e *engine) Close() {
	e.mgr.Shutdown()
	closeSpecs(e.specs)
}

// clearTarget drops every scope's records for a deleted target.
func (e *engine) clearTarget(target string) {
	for _, name := range e.mgr.Names() {
		e.store.Publish(name, target, nil)
	}
}

// loadSpecs loads every --spec path; a directory loads all *.lua files
// inside it.
func loadSpecs(paths []string) ([]*script.Spec, error) {
	var specs []*script.Spec
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			closeSpecs(specs)
			return nil, fmt.Errorf("spec path %s: %w", path, err)
		}

		if info.IsDir() {
			loaded, err := script.LoadDir(path)
			if err != nil {
				closeSpecs(specs)
				return nil, err
			}
			specs = append(specs, loaded...)
			continue
		}

		spec, err := script.Load(path)
		if err != nil {
			closeSpecs(specs)
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func closeSpecs(specs []*script.Spec) {
	for _, s := range specs {
		_ = s.Close()
	}
}

// specOverrides lifts the filetype scope a spec declares for itself
// into an override table.
func specOverrides(spec *script.Spec) map[string]any {
	if fts := spec.Filetypes(); len(fts) > 0 {
		return map[string]any{"filetypes": fts}
	}
	return nil
}

// mergeOverrides flattens override layers; later layers win key by key.
func mergeOverrides(layers ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
