package cli

import (
	stdcontext "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/reap/internal/config"
	"github.com/Paintersrp/reap/internal/engine"
	"github.com/Paintersrp/reap/internal/host"
	"github.com/Paintersrp/reap/internal/names"
	"github.com/Paintersrp/reap/internal/procs"
)

const defaultConfigPath = "reap.yaml"

func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *context) {
	var configPath string

	root := &cobra.Command{
		Use:   "reap",
		Short: "Searchable live process view with kill actions",
	}

	root.PersistentFlags().
		StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to configuration file")

	ctx := &context{configPath: &configPath}
	root.AddCommand(newServeCmd(ctx))
	root.AddCommand(newTuiCmd(ctx))
	root.AddCommand(newQueryCmd(ctx))
	root.AddCommand(newKillCmd(ctx))
	root.AddCommand(newConfigCmd(ctx))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, ctx
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type context struct {
	configPath *string
}

// loadConfig reads the configured file. A missing file is only an error when
// the path was given explicitly.
func (c *context) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Root().PersistentFlags().Changed("config") {
		return config.Load(*c.configPath)
	}
	return config.LoadOrDefault(*c.configPath)
}

// parts bundles the assembled engine collaborators for one command run.
type parts struct {
	cache   *engine.Cache
	tracker *engine.Tracker
	query   *engine.Query
	killer  *engine.Killer
}

// buildEngine wires the engine against the provided UI host.
func buildEngine(cfg *config.Config, h host.Host, events chan<- engine.Event) parts {
	resolver := names.NewResolver(names.Config{
		TTL:         cfg.Names.TTL.Duration,
		DesktopDirs: cfg.Names.DesktopDirs,
		Docker:      cfg.Names.Docker,
	})

	tracker := engine.NewTracker(h, events)
	cache := engine.NewCache(engine.CacheConfig{
		Enumerator: procs.NewSystemEnumerator(),
		Resolver:   resolver,
		Tracker:    tracker,
		Events:     events,
		Interval:   cfg.Refresh.Interval.Duration,
	})

	return parts{
		cache:   cache,
		tracker: tracker,
		query:   engine.NewQuery(cache, tracker, events),
		killer:  engine.NewKiller(cache, h),
	}
}
