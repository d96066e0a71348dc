package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/cache"
	"github.com/matzehuels/liquidglass/pkg/observability"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
	"github.com/matzehuels/liquidglass/pkg/server"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	redisURL  string
	prefix    string
	cacheSize int
	cacheTTL  time.Duration
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr, cacheSize: cache.DefaultMemoryEntries}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the displacement map API over HTTP",
		Long: `Serve runs the HTTP API:

  GET  /healthz
  GET  /v1/presets
  GET  /v1/presets/{name}
  POST /v1/displacement
  GET  /v1/displacement.svg?preset=pill&width=320
  GET  /v1/filter.svg?preset=dock&preview=true

Generated maps are memoized in process, or in Redis when --redis is set so
that several instances share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.prefix, "cache-prefix", "", "prefix for cache keys, to share one Redis between deployments")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", opts.cacheSize, "entries kept by the in-process cache")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", 0, "lifetime of cached entries (default 7 days for maps, 30 for artifacts)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.prefix)
	}
	runner := pipeline.NewRunner(cache.WithTTL(store, opts.cacheTTL), keyer, c.Logger)
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	return server.New(runner, c.Logger.WithPrefix("http")).ListenAndServe(ctx, opts.addr)
}

func serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redisURL == "" {
		return cache.NewMemoryCache(opts.cacheSize), nil
	}
	rc, err := cache.NewRedisCache(ctx, opts.redisURL, appName+":")
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rc, nil
}
