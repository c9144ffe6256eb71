package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Sternrassler/twitch-stream-search/pkg/config"
	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "stream-search",
		Usage: "Search live Twitch streams page by page",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: defaultConfigPath(),
			},
		},
		Commands: []*cli.Command{
			tuiCommand(),
			queryCommand(),
			initCommand(),
			versionCommand(),
		},
		DefaultCommand: "tui",
	}
}

func defaultConfigPath() string {
	path, err := config.DefaultPath()
	if err != nil {
		return "config.toml"
	}
	return path
}

// initCommand creates the init command
func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a commented configuration file",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.String("config")
			if err := config.WriteTemplate(path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(c.Root().Writer, "Configuration initialized at %s\n", path)
			return nil
		},
	}
}

// versionCommand creates the version command
func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Fprintf(c.Root().Writer, "stream-search %s\n", version)
			return nil
		},
	}
}
