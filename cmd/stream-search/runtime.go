package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/Sternrassler/twitch-stream-search/pkg/config"
	"github.com/Sternrassler/twitch-stream-search/pkg/logging"
	"github.com/Sternrassler/twitch-stream-search/pkg/metrics"
	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/ratelimit"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
)

// runtime holds the long-lived collaborators shared by the commands.
type runtime struct {
	cfg    *config.Config
	client *twitch.Client
	redis  *redis.Client
}

// loadConfig reads the --config file and applies --debug.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("debug") {
		cfg.Log.Level = string(logging.LevelDebug)
	}
	return cfg, nil
}

// newRuntime builds the Twitch client, connecting Redis for shared rate
// limit tracking when configured.
func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg}
	clientCfg := cfg.TwitchClientConfig()

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}

		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}

		tracker := ratelimit.NewTracker(rdb, logging.NewLogger("ratelimit"))
		tracker.SetThrottleDelay(cfg.Redis.ThrottleDelay.Duration)
		clientCfg.RateLimiter = tracker
		rt.redis = rdb
	}

	client, err := twitch.New(clientCfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("creating twitch client: %w", err)
	}
	rt.client = client

	return rt, nil
}

func (rt *runtime) controller(p pagination.Presenter[twitch.Stream]) *pagination.Controller[twitch.Stream] {
	return pagination.NewController[twitch.Stream](rt.client, p, rt.cfg.PaginationConfig())
}

// startMetrics serves /metrics until ctx is done. It is a no-op without an
// address.
func (rt *runtime) startMetrics(ctx context.Context) error {
	if rt.cfg.Metrics.Addr == "" {
		return nil
	}

	srv, err := metrics.Listen(rt.cfg.Metrics.Addr, rt.ready)
	if err != nil {
		return err
	}

	logger := logging.NewLogger("metrics")
	go func() {
		if err := srv.Serve(ctx); err != nil {
			logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return nil
}

func (rt *runtime) ready(ctx context.Context) error {
	if rt.redis == nil {
		return nil
	}
	return rt.redis.Ping(ctx).Err()
}

func (rt *runtime) Close() {
	if rt.client != nil {
		rt.client.Close()
	}
	if rt.redis != nil {
		rt.redis.Close()
	}
}
