package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fragmede/safechain/internal/monitor"
	"github.com/fragmede/safechain/internal/ui"
)

func runTUI(cmd *cobra.Command, opts *options) error {
	return withRuntime(opts, func(rt *runtime) error {
		app := ui.NewApp(ui.Deps{
			Config:  rt.cfg,
			API:     rt.api,
			Auth:    rt.auth,
			Session: rt.session,
			History: rt.history,
			Logger:  rt.logger,
		})

		p := tea.NewProgram(app,
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()))

		mon := monitor.New(rt.api, rt.cfg.APIURL, rt.cfg.DemoURL,
			rt.cfg.MonitorInterval, rt.cfg.RequestTimeout, rt.logger)
		mon.Start(p)

		_, err := p.Run()
		// Stop must follow Run: Send blocks while the program is running.
		mon.Stop()
		return err
	})
}
