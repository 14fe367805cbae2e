// Package cli is the safechain command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/fragmede/safechain/internal/config"
)

// options holds state shared by all subcommands.
type options struct {
	version    string
	configFile string
	cfg        config.Config
}

// NewRootCmd creates the root command. Run without a subcommand it starts
// the interactive TUI.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{version: version}

	cmd := &cobra.Command{
		Use:   "safechain",
		Short: "SafeChain password strength client",
		Long: `SafeChain signs you in to the SafeChain service and checks how strong
your passwords are. Run without arguments for the interactive interface.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	def := config.Default()
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path (default: "+config.DefaultFile()+")")
	pf.String("api-url", def.APIURL, "SafeChain API base URL")
	pf.String("demo-url", def.DemoURL, "demo service URL")
	pf.String("data-dir", def.DataDir, "directory for the session, history and log")
	pf.String("store", def.Store, "session store: sqlite, bolt or memory")
	pf.Duration("request-timeout", def.RequestTimeout, "timeout for each API request")
	pf.Duration("monitor-interval", def.MonitorInterval, "how often the TUI checks connectivity")
	pf.String("log-format", def.LogFormat, "log format: text or json")
	pf.String("log-level", def.LogLevel, "log level: debug, info, warn or error")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newDemoCmd(opts))

	return cmd
}

// withRuntime opens the runtime for the loaded config and closes it when fn
// returns.
func withRuntime(opts *options, fn func(*runtime) error) error {
	rt := openRuntime(opts.cfg, opts.version)
	defer rt.Close()
	return fn(rt)
}
