package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/pkg/cachekit"
)

var errNoCacheDir = errors.New("cache.dir is not set")

// CacheCommand returns the cache subcommand group.
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect persisted load snapshots",
		Subcommands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Show the last snapshot of a group",
				Flags:  []cli.Flag{labelFlag},
				Action: runCacheGet,
			},
			{
				Name:   "clear",
				Usage:  "Remove every snapshot",
				Action: runCacheClear,
			},
		},
	}
}

func snapshotKey(label string) string {
	if label == "" {
		return "snapshot"
	}
	return "snapshot:" + label
}

// openCache opens the snapshot cache: Badger when cache.dir is set,
// otherwise an in-process memory pool.
func openCache(env *Env) (cachekit.Cache, func() error, error) {
	if env.Config.Cache.Dir == "" {
		return cachekit.NewMemoryPool(), func() error { return nil }, nil
	}
	kv, err := cachekit.OpenBadger(cachekit.BadgerConfig{
		Dir:    env.Config.Cache.Dir,
		Logger: env.Logger.Slog(),
	})
	if err != nil {
		return nil, nil, err
	}
	return kv, kv.Close, nil
}

func saveSnapshot(ctx context.Context, env *Env, label string, results loadResults) error {
	cache, closeFn, err := openCache(env)
	if err != nil {
		return err
	}
	defer closeFn()
	return cachekit.SetItem(ctx, cache, snapshotKey(label), results, env.Config.Cache.TTL)
}

func openPersistent(env *Env) (cachekit.Cache, func() error, error) {
	if env.Config.Cache.Dir == "" {
		return nil, nil, errNoCacheDir
	}
	return openCache(env)
}

func runCacheGet(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	cache, closeFn, err := openPersistent(env)
	if err != nil {
		return err
	}
	defer closeFn()

	label := c.String("label")
	v, err := cachekit.GetItem(env.Context(c.Context), cache, snapshotKey(label))
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("no snapshot for %q", label)
	}
	return env.Print(v)
}

func runCacheClear(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	cache, closeFn, err := openPersistent(env)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := cachekit.Clear(env.Context(c.Context), cache); err != nil {
		return err
	}
	env.Logger.Info("snapshots cleared", "dir", env.Config.Cache.Dir)
	return nil
}
