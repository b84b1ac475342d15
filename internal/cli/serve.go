package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/internal/server"
	"github.com/matzehuels/mindtower/pkg/archive"
	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	redisAddr string // Redis cache backend (file cache when empty)
	mongoURI  string // MongoDB archive backend (in-memory when empty)
	noCache   bool   // disable caching entirely
}

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      c.Config.Server.Addr,
		redisAddr: c.Config.Server.RedisAddr,
		mongoURI:  c.Config.Server.MongoURI,
	}
	if opts.addr == "" {
		opts.addr = ":8080"
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mind map pipeline over HTTP",
		Long: `Serve the mind map pipeline as a JSON HTTP API.

Generated maps are archived and retrievable by ID. By default the server
uses the local file cache and an in-memory archive; point it at Redis and
MongoDB for multi-instance deployments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "Redis address for the shared cache (file cache if empty)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "MongoDB URI for the archive (in-memory if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires the cache, archive, and runner, then blocks until shutdown.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cch, err := c.newServerCache(ctx, opts)
	if err != nil {
		return err
	}

	store, err := c.newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	runner := pipeline.NewRunner(cch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, store, c.Logger, server.Config{Addr: opts.addr})
	return srv.ListenAndServe(ctx)
}

func (c *CLI) newServerCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		cch, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect to Redis %s: %w", opts.redisAddr, err)
		}
		c.Logger.Info("using Redis cache", "addr", opts.redisAddr)
		return cch, nil
	}
	return newCache(false)
}

func (c *CLI) newStore(ctx context.Context, opts *serveOpts) (archive.Store, error) {
	if opts.mongoURI != "" {
		store, err := archive.NewMongoStore(ctx, archive.MongoConfig{URI: opts.mongoURI})
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		c.Logger.Info("using MongoDB archive")
		return store, nil
	}
	c.Logger.Warn("using in-memory archive; maps are lost on restart")
	return archive.NewMemoryStore(), nil
}
