package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/reap/internal/host"
)

func newQueryCmd(ctx *context) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "query [term]",
		Short: "Search the process table once and print the results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}

			term := ""
			if len(args) == 1 {
				term = args[0]
			}

			runCtx := cmd.Context()
			mem := host.NewMemoryHost()
			p := buildEngine(cfg, mem, nil)
			p.cache.Refresh(runCtx)

			views := p.query.Execute(runCtx, term)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tTITLE\tPATH\tTAILS")
			for _, view := range views {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", view.Score, view.Title, view.Subtitle, strings.Join(view.Tails, ", "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}
