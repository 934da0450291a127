package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if len(h.signals) != 2 {
		t.Errorf("signals = %v, want SIGINT and SIGTERM", h.signals)
	}
	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func recordHooks(h *Handler, n int) func() []int {
	var mu sync.Mutex
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		id := i
		h.OnShutdown(func(context.Context) error {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			return nil
		})
	}
	return func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), order...)
	}
}

func waitResult(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
		return nil
	}
}

func TestHandler_Wait_ContextCancel(t *testing.T) {
	h := NewHandler(time.Second)
	order := recordHooks(h, 3)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(ctx) }()

	cancel()
	if err := waitResult(t, errCh); err != nil {
		t.Errorf("Wait() error = %v", err)
	}

	got := order()
	if len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Errorf("hooks called in order %v, want [3 2 1]", got)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_Signal(t *testing.T) {
	h := NewHandler(time.Second)
	order := recordHooks(h, 1)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("kill: %v", err)
	}

	if err := waitResult(t, errCh); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	if len(order()) != 1 {
		t.Error("hook was not called after signal")
	}
}

func TestHandler_Wait_HookErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("close watcher")
	errB := errors.New("close cache")

	h.OnShutdown(func(context.Context) error { return errA })
	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return errB })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Wait(ctx)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() error = %v, want both hook errors", err)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("hook context has no deadline")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Wait(ctx); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
}
