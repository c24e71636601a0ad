package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/lintbridge/internal/command"
)

func newAdaptersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List loaded adapters and whether their tools resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(opts, engineHooks{})
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			r := newRenderer(out)
			for _, spec := range eng.specs {
				a, err := eng.mgr.Get(spec.Name())
				if err != nil {
					return err
				}
				path, resolveErr := command.Resolve(spec.Executables())
				fmt.Fprint(out, r.adapterLine(spec.Name(), spec.Executables(), path, resolveErr, a.Enabled()))
			}
			return nil
		},
	}
}
