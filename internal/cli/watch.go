package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var hidden bool

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Watch paths and rescan files as they change",
		Long: "Watch monitors the given paths (the working directory by default) and\n" +
			"feeds file events to the adapters: writes debounce into change-mode\n" +
			"scans, new and replaced files scan immediately, and deletions clear a\n" +
			"file's findings. Results stream to stdout as they arrive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			out := cmd.OutOrStdout()
			r := newRenderer(out)

			// Deliveries arrive on runner goroutines; one mutex keeps
			// re-renders from interleaving.
			var printMu sync.Mutex
			eng, err := buildEngine(opts, engineHooks{
				onChange: func(target string, records []diag.Record) {
					printMu.Lock()
					defer printMu.Unlock()
					fmt.Fprint(out, r.update(target, records))
				},
				baseOverrides: map[string]any{"run_mode": "change"},
			})
			if err != nil {
				return err
			}
			defer eng.Close()

			var wopts []watch.Option
			if hidden {
				wopts = append(wopts, watch.WithHidden())
			}
			w, err := watch.New(func(path string, kind watch.Kind) {
				switch kind {
				case watch.KindSave:
					eng.mgr.HandleSave(path)
				case watch.KindChange:
					eng.mgr.HandleChange(path)
				case watch.KindRemove:
					eng.clearTarget(path)
				}
			}, wopts...)
			if err != nil {
				return err
			}
			defer w.Close()

			for _, path := range paths {
				if err := w.Watch(path); err != nil {
					return err
				}
			}

			fmt.Fprintf(out, "watching %s with %d adapters; press Ctrl-C to stop\n",
				strings.Join(paths, ", "), len(eng.mgr.Names()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			fmt.Fprintln(out, "stopping")
			return nil
		},
	}

	cmd.Flags().BoolVar(&hidden, "hidden", false, "watch hidden files and directories too")
	return cmd
}
