package metric

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/devkit/pkg/fakes"
	"github.com/yndnr/devkit/pkg/lazyconfig"
	"github.com/yndnr/devkit/pkg/lazyconfig/decode"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.CollectionsTotal == nil || r.FilesLoaded == nil || r.FilesFailed == nil {
		t.Error("counters not initialized")
	}
	if r.FileLoadDuration == nil {
		t.Error("FileLoadDuration is nil")
	}
}

func TestHandler(t *testing.T) {
	body := scrape(t, NewRegistry())
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestObserver(t *testing.T) {
	r := NewRegistry()

	r.CollectionCreated("database", 2)
	r.CollectionCreated("", 5)
	r.FileLoaded("a.yaml", 2*time.Millisecond)
	r.FileLoaded("b.yaml", time.Millisecond)
	r.FileFailed("c.yaml", "CFG-LOAD-4041")

	body := scrape(t, r)
	for _, want := range []string{
		`devkit_config_collections_total{label="database"} 1`,
		`devkit_config_collections_total{label=""} 1`,
		`devkit_config_files_loaded_total 2`,
		`devkit_config_files_failed_total{code="CFG-LOAD-4041"} 1`,
		`devkit_config_file_load_seconds_count 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestObserver_WithLoader(t *testing.T) {
	r := NewRegistry()
	fsys := fakes.NewFS(map[string]string{"a.yaml": "a: 1"})
	table, err := lazyconfig.NewPathTable(lazyconfig.Group("app", "a.yaml", "missing.yaml"))
	if err != nil {
		t.Fatalf("NewPathTable() error = %v", err)
	}

	loader := lazyconfig.New(table, decode.Document(),
		lazyconfig.WithFileSystem(fsys),
		lazyconfig.WithObserver(r))
	coll, err := loader.Load("app")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := coll.ToSlice(); !errors.Is(err, lazyconfig.ErrInvalidFile) {
		t.Fatalf("ToSlice() error = %v, want ErrInvalidFile", err)
	}

	body := scrape(t, r)
	for _, want := range []string{
		`devkit_config_collections_total{label="app"} 1`,
		`devkit_config_files_loaded_total 1`,
		`devkit_config_files_failed_total{code="CFG-LOAD-4041"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestRecordReload(t *testing.T) {
	r := NewRegistry()
	r.RecordReload(nil)
	r.RecordReload(nil)
	r.RecordReload(errors.New("boom"))

	body := scrape(t, r)
	if !strings.Contains(body, `devkit_config_reloads_total{result="ok"} 2`) {
		t.Error(`expected devkit_config_reloads_total{result="ok"} 2`)
	}
	if !strings.Contains(body, `devkit_config_reloads_total{result="error"} 1`) {
		t.Error(`expected devkit_config_reloads_total{result="error"} 1`)
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, addr) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.CollectionCreated("db", 1)
				r.FileLoaded("a.yaml", time.Microsecond)
				r.FileFailed("b.yaml", "CFG-LOAD-4220")
			}
		}()
	}
	wg.Wait()

	body := scrape(t, r)
	if !strings.Contains(body, `devkit_config_files_loaded_total 1000`) {
		t.Error("expected devkit_config_files_loaded_total 1000")
	}
}

func TestServeTLS(t *testing.T) {
	certPEM, keyPEM, err := fakes.SelfSignedCert(1, "127.0.0.1")
	if err != nil {
		t.Fatalf("SelfSignedCert() error = %v", err)
	}
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("X509KeyPair() error = %v", err)
	}
	roots := x509.NewCertPool()
	roots.AppendCertsFromPEM(certPEM)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.ServeTLS(ctx, addr, &tls.Config{Certificates: []tls.Certificate{pair}})
	}()

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: roots},
	}}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("https://" + addr + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /metrics over TLS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeTLS() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeTLS() did not return after cancel")
	}
}
