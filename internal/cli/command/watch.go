package command

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devkit/internal/infra/confloader"
	"github.com/yndnr/devkit/internal/infra/shutdown"
	"github.com/yndnr/devkit/internal/infra/tlsroots"
	"github.com/yndnr/devkit/pkg/cachekit"
	"github.com/yndnr/devkit/pkg/lazyconfig"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Reload a group whenever one of its files changes",
		Flags: []cli.Flag{
			labelFlag,
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "Time allowed for cleanup on exit",
				Value: 5 * time.Second,
			},
		},
		Action: runWatch,
	}
}

// reloader reloads a collection and keeps the last good snapshot.
type reloader struct {
	env   *Env
	coll  *lazyconfig.Collection[any]
	label string
	cache cachekit.Cache

	mu sync.Mutex
}

func (r *reloader) reload(ctx context.Context, trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results, err := drain(r.coll, false, r.env)
	r.env.Metrics.RecordReload(err)
	if err != nil {
		r.env.Logger.Warn("reload failed, keeping last snapshot",
			"label", r.label,
			"trigger", trigger,
			"error", err,
		)
		return
	}

	if err := cachekit.SetItem(ctx, r.cache, snapshotKey(r.label), results, r.env.Config.Cache.TTL); err != nil {
		r.env.Logger.Warn("failed to save snapshot",
			"label", r.label,
			"error", err,
		)
	}

	r.env.Logger.Info("config reloaded",
		"label", r.label,
		"trigger", trigger,
		"files", len(results),
	)
	if err := r.env.Print(results); err != nil {
		r.env.Logger.Error("failed to print snapshot", "error", err)
	}
}

func runWatch(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	loader, err := env.Loader()
	if err != nil {
		return err
	}
	label := c.String("label")
	coll, err := collection(loader, label)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(env.Context(c.Context))
	defer cancel()

	cache, closeCache, err := openCache(env)
	if err != nil {
		return err
	}

	watcher, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(env.Logger.Slog()),
		confloader.WithMinInterval(env.Config.Watch.MinInterval),
	)
	if err != nil {
		closeCache()
		return err
	}
	own := make(map[string]struct{}, coll.Count())
	for _, path := range coll.Paths() {
		abs, err := filepath.Abs(path)
		if err == nil {
			err = watcher.Watch(abs)
		}
		if err != nil {
			watcher.Stop()
			closeCache()
			return err
		}
		own[abs] = struct{}{}
	}

	r := &reloader{env: env, coll: coll, label: label, cache: cache}
	r.reload(ctx, "startup")
	watcher.OnChange(func(path string) {
		if _, ok := own[path]; ok {
			r.reload(ctx, path)
		}
	})
	watcher.StartAsync()

	h := shutdown.NewHandler(c.Duration("shutdown-timeout"))
	h.OnShutdown(func(context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		return closeCache()
	})
	h.OnShutdown(func(context.Context) error { return watcher.Stop() })

	if addr := env.Config.Metrics.ListenAddr; addr != "" {
		tlsConfig, err := metricsTLS(env, watcher)
		if err != nil {
			cancel()
			_ = h.Wait(ctx)
			return err
		}
		go func() {
			if err := env.Metrics.ServeTLS(ctx, addr, tlsConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				env.Logger.Error("metrics server failed", "addr", addr, "error", err)
			}
		}()
		h.OnShutdown(func(context.Context) error {
			cancel()
			return nil
		})
	}

	env.Logger.Info("watching config files",
		"label", label,
		"files", watcher.Files(),
	)
	return h.Wait(ctx)
}

// metricsTLS returns nil when the endpoint is plain HTTP. The key pair is
// reloaded through w whenever its files change.
func metricsTLS(env *Env, w *confloader.Watcher) (*tls.Config, error) {
	m := env.Config.Metrics
	if m.TLSCert == "" {
		return nil, nil
	}

	kp, err := tlsroots.LoadKeypair(m.TLSCert, m.TLSKey, env.Logger.Slog())
	if err != nil {
		return nil, err
	}
	if err := kp.Watch(w); err != nil {
		return nil, err
	}

	var clientCAs *tlsroots.Pool
	if m.ClientCA != "" {
		if clientCAs, err = tlsroots.LoadPool(m.ClientCA); err != nil {
			return nil, err
		}
	}
	return tlsroots.ServerConfig(kp, clientCAs), nil
}
