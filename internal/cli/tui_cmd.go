package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/reap/internal/tui"
)

func newTuiCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive process view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !supportsInteractiveOutput(cmd) {
				return fmt.Errorf("tui requires an interactive terminal")
			}

			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}

			ui := tui.New()
			p := buildEngine(cfg, ui, ui.EventSink())
			ui.Attach(p.query, p.killer)

			p.cache.Start(cmd.Context())
			defer stopRefresher(p.cache)

			return ui.Run(cmd.Context())
		},
	}
	return cmd
}
