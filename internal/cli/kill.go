package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/reap/internal/host"
)

func newKillCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill <pid>",
		Short: "Terminate a process by pid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil || pid <= 0 {
				return fmt.Errorf("invalid pid %q", args[0])
			}

			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			mem := host.NewMemoryHost()
			p := buildEngine(cfg, mem, nil)
			p.cache.Refresh(runCtx)

			killErr := p.killer.Kill(runCtx, int32(pid))
			for _, message := range mem.Notifications() {
				fmt.Fprintln(cmd.OutOrStdout(), message)
			}
			return killErr
		},
	}
	return cmd
}
