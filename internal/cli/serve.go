package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"spriteforge/internal/server"
	"spriteforge/pkg/cache"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr   string // listen address
	frames int    // frame count the sheet holds
	fps    int    // playback rate for the preview page
	name   string // animation name shown on the page
	redis  string // redis address for the artifact cache
}

// newServeCmd creates the serve command hosting a browser preview of a sheet.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [sheet.png]",
		Short: "Serve a sprite sheet with an animated browser preview",
		Long: `Serve hosts an existing sprite sheet over HTTP.

The index page animates the sheet with a CSS steps() animation, /sheet.png
serves the raw PNG and /api/info reports the frame geometry as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "frame count the sheet holds")
	cmd.Flags().IntVar(&opts.fps, "fps", 12, "preview playback rate")
	cmd.Flags().StringVar(&opts.name, "name", "", "animation name shown on the page")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the artifact cache (host:port)")

	return cmd
}

// runServe blocks until the server fails or the context is cancelled.
func runServe(ctx context.Context, path string, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	c := serveCache(ctx, opts)
	defer c.Close()

	srv, err := server.New(server.Config{
		SheetPath: path,
		Frames:    opts.frames,
		FPS:       opts.fps,
		Name:      opts.name,
		Cache:     c,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	printInfo("Serving " + path + " on " + opts.addr)
	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, context.Canceled) {
		logger.Debug("Server stopped")
		return nil
	}
	return err
}

// serveCache picks the cache backend for the server: redis when an address is
// given, the shared file cache otherwise.
func serveCache(ctx context.Context, opts *serveOpts) cache.Cache {
	logger := loggerFromContext(ctx)

	if opts.redis != "" {
		c, err := cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			logger.Warnf("Redis unavailable at %s, falling back to file cache: %v", opts.redis, err)
		} else {
			return c
		}
	}
	return newCache(false)
}
