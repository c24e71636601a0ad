package watch

import "errors"

var (
	// ErrWatcherClosed indicates use of a watcher after Close.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrNoTrigger indicates a watcher constructed without a trigger
	// callback.
	ErrNoTrigger = errors.New("no trigger callback")
)
