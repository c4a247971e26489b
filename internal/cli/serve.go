package cli

import (
	stdcontext "context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	apihttp "github.com/Paintersrp/reap/internal/api/http"
	"github.com/Paintersrp/reap/internal/engine"
	"github.com/Paintersrp/reap/internal/host"
)

const stopTimeout = 5 * time.Second

var newAPIServer = apihttp.NewServer

func newServeCmd(ctx *context) *cobra.Command {
	var apiAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refresher with the HTTP control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			if apiAddr != "" {
				cfg.API.Addr = apiAddr
			}

			runCtx := cmd.Context()
			events := make(chan engine.Event, 256)
			mem := host.NewMemoryHost()
			p := buildEngine(cfg, mem, events)

			server, err := newAPIServer(apihttp.Config{
				Addr:       cfg.API.Addr,
				Controller: newControlAPI(p, mem),
			})
			if err != nil {
				return err
			}

			p.cache.Start(runCtx)

			serverCtx, cancelServer := stdcontext.WithCancel(runCtx)
			defer cancelServer()
			serverErr := make(chan error, 1)
			go func() {
				serverErr <- server.Run(serverCtx)
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Control API listening on %s\n", server.Addr())

			enc := json.NewEncoder(cmd.OutOrStdout())
			stderr := cmd.ErrOrStderr()

			for {
				select {
				case evt := <-events:
					encodeLogEvent(enc, stderr, evt)
				case err := <-serverErr:
					cancelServer()
					stopRefresher(p.cache)
					if err != nil && !errors.Is(err, stdcontext.Canceled) && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				case <-runCtx.Done():
					cancelServer()
					stopRefresher(p.cache)
					if err := <-serverErr; err != nil && !errors.Is(err, stdcontext.Canceled) && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&apiAddr, "api", "", "Override the API listen address")
	return cmd
}

func stopRefresher(cache *engine.Cache) {
	stopCtx, cancel := stdcontext.WithTimeout(stdcontext.Background(), stopTimeout)
	defer cancel()
	_ = cache.Stop(stopCtx)
}
