// Package cli implements the lintbridge command-line front end.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/lintbridge/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	specPaths  []string
	logLevel   string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lintbridge",
		Short: "Run external analysis tools and collect their findings",
		Long: "Lintbridge runs external lint and analysis tools against your files,\n" +
			"normalizes their JSON output, and renders every tool's findings in one\n" +
			"place. Tools are described by Lua spec files loaded with --spec.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fl := cmd.PersistentFlags()
	fl.StringVar(&opts.configPath, "config", config.DefaultFileName, "path to the configuration file")
	fl.StringArrayVar(&opts.specPaths, "spec", nil, "Lua spec file or directory of specs (repeatable)")
	fl.StringVar(&opts.logLevel, "log-level", "", "log verbosity: debug, info, warn, error")
	fl.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-tool run deadline (0 disables)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newAdaptersCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// Execute runs the root command. Errors are reported on stderr; the
// caller chooses the exit code.
func Execute() error {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lintbridge: %v\n", err)
		return err
	}
	return nil
}
