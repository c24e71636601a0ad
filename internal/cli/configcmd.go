package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings for every adapter",
		Long: "Config prints each adapter's settings after its spec defaults and the\n" +
			"configuration file's overrides have been merged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(opts, engineHooks{})
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			r := newRenderer(out)
			for i, a := range eng.mgr.Adapters() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, r.heading(a.Name()))
				described := strings.TrimRight(a.Config().Describe(), "\n")
				for _, line := range strings.Split(described, "\n") {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			return nil
		},
	}
}
