// Package adapter orchestrates external analysis tools over target
// files and turns their output into diagnostic records.
//
// An adapter binds one tool integration (a Spec) to a publisher. It
// listens for save and change triggers, debounces change storms, runs
// the tool asynchronously through the runner, parses whatever the tool
// printed, pushes every raw result through the transform pipeline, and
// publishes the surviving records. Tool failures are reported through
// the logger and never panic the caller.
//
// # Architecture
//
// The package is organized around these core components:
//
//   - Spec: One tool integration's capabilities (command, arguments,
//     validation, transformation)
//   - Definition/NewSpec: Declarative construction with up-front
//     validation
//   - Adapter: Per-tool orchestrator with debounce, sequencing, and
//     delivery
//   - Manager: Registry that fans triggers out by filetype
//
// # Quick Start
//
// Declare a tool and register it:
//
//	spec, err := adapter.NewSpec(adapter.Definition{
//	    Name:    "demolint",
//	    Command: []string{"demolint"},
//	    Args: func(cfg *config.Settings, file string) ([]string, error) {
//	        return []string{"--format", "json", file}, nil
//	    },
//	    Validate: func(res parse.Result) bool {
//	        return res.Get("message").Exists()
//	    },
//	    Transform: func(res parse.Result, cfg *config.Settings) (diag.Record, error) {
//	        rec := diag.NewRecord(int(res.Get("line").Int())-1, int(res.Get("column").Int())-1, res.Get("message").String())
//	        return rec, nil
//	    },
//	    DefaultSeverity: diag.SeverityWarning,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mgr := adapter.NewManager(adapter.WithStore(store))
//	if _, err := mgr.Register(spec, nil); err != nil {
//	    log.Fatal(err)
//	}
//	mgr.HandleSave("/path/to/file.go")
//
// # Triggers and Modes
//
// Each adapter runs in one of two modes. In on-save mode a save
// trigger scans immediately and change triggers are ignored. In
// on-change mode each change trigger restarts a per-target debounce
// timer, so a burst of edits produces one scan after the target has
// been quiet for the configured interval; a save flushes the pending
// timer into an immediate scan.
//
// # Delivery Ordering
//
// Every launched scan is tagged with a per-target sequence number.
// Results are delivered only when no newer scan for the same target
// has delivered first, so a slow process cannot overwrite fresher
// records.
//
// # Thread Safety
//
// Adapter and Manager are safe for concurrent use. Spec
// implementations must be immutable after construction.
package adapter
