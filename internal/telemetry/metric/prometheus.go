package metric

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/devkit/pkg/lazyconfig"
)

const namespace = "devkit"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	CollectionsTotal *prometheus.CounterVec
	FilesLoaded      prometheus.Counter
	FilesFailed      *prometheus.CounterVec
	FileLoadDuration prometheus.Histogram
	ReloadsTotal     *prometheus.CounterVec
}

var _ lazyconfig.Observer = (*Registry)(nil)

// NewRegistry creates a registry with Go runtime and process collectors
// plus the config-loading metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		CollectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "collections_total",
			Help:      "Collections created, by label (empty for all).",
		}, []string{"label"}),
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "files_loaded_total",
			Help:      "Config files read and decoded.",
		}),
		FilesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "files_failed_total",
			Help:      "Config files that failed to load, by error code.",
		}, []string{"code"}),
		FileLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "file_load_seconds",
			Help:      "Time to check, read and decode one config file.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		ReloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "reloads_total",
			Help:      "Watch-triggered reloads, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		r.CollectionsTotal,
		r.FilesLoaded,
		r.FilesFailed,
		r.FileLoadDuration,
		r.ReloadsTotal,
	)
	return r
}

// CollectionCreated implements lazyconfig.Observer.
func (r *Registry) CollectionCreated(label string, _ int) {
	r.CollectionsTotal.WithLabelValues(label).Inc()
}

// FileLoaded implements lazyconfig.Observer.
func (r *Registry) FileLoaded(_ string, elapsed time.Duration) {
	r.FilesLoaded.Inc()
	r.FileLoadDuration.Observe(elapsed.Seconds())
}

// FileFailed implements lazyconfig.Observer.
func (r *Registry) FileFailed(_ string, code string) {
	r.FilesFailed.WithLabelValues(code).Inc()
}

// RecordReload counts a watch-triggered reload.
func (r *Registry) RecordReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ReloadsTotal.WithLabelValues(result).Inc()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes the registry at /metrics on addr until ctx is done.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	return r.ServeTLS(ctx, addr, nil)
}

// ServeTLS is Serve over TLS. Certificates come from tlsConfig, so it
// must provide Certificates or GetCertificate. A nil tlsConfig serves
// plain HTTP.
func (r *Registry) ServeTLS(ctx context.Context, addr string, tlsConfig *tls.Config) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
