package cli

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newDemoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Call the demo service",
		Long:  `Call the auxiliary demo service and print what it returns.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				msg, err := rt.api.Demo(cmd.Context(), rt.cfg.DemoURL)
				if err != nil {
					return oops.Code("DEMO_FAILED").With("url", rt.cfg.DemoURL).Wrapf(err, "demo service")
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}
