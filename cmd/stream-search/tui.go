package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/Sternrassler/twitch-stream-search/internal/tui"
	"github.com/Sternrassler/twitch-stream-search/pkg/logging"
	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
)

// tuiCommand creates the interactive search command
func tuiCommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Search interactively in the terminal",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			// The UI owns the terminal; logs go to a file or nowhere.
			if cfg.Log.File != "" {
				_, closer, err := logging.SetupFile(cfg.LoggingConfig(), cfg.Log.File)
				if err != nil {
					return err
				}
				defer closer.Close()
			} else {
				logging.Discard()
			}

			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			if err := rt.startMetrics(ctx); err != nil {
				return err
			}

			return tui.Run(ctx, func(p pagination.Presenter[twitch.Stream]) tui.Searcher {
				return rt.controller(p)
			})
		},
	}
}
