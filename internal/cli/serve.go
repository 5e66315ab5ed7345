package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchor/internal/server"
	"github.com/matzehuels/anchor/pkg/scene"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement engine over HTTP",
		Long: `Serve exposes scene resolution over HTTP:

  GET  /healthz
  GET  /v1/placements
  POST /v1/position
  POST /v1/sweep

Configuration is read from ANCHOR_* environment variables (ANCHOR_ADDR,
ANCHOR_REDIS_ADDR, ANCHOR_CACHE_TTL, ANCHOR_LOG_FILE, ANCHOR_LOG_LEVEL,
ANCHOR_MAX_BODY_BYTES). Without ANCHOR_REDIS_ADDR results are not cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger, closer, err := server.NewLogger(*cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()
			if c.Logger.GetLevel() < logger.GetLevel() {
				logger.SetLevel(c.Logger.GetLevel())
			}

			rc, keyer, err := server.NewCache(ctx, *cfg)
			if err != nil {
				return err
			}
			defer rc.Close()
			if cfg.RedisAddr != "" {
				logger.Info("result cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CacheTTL)
			}

			resolver := scene.NewResolver(rc, cfg.CacheTTL, logger)
			resolver.Keyer = keyer
			return server.New(*cfg, resolver, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ANCHOR_ADDR)")
	return cmd
}
