package cleanup

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeSessionStore struct {
	mu      sync.Mutex
	expired int64
	calls   int
	fail    bool
}

func (f *fakeSessionStore) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return 0, fmt.Errorf("store down")
	}
	n := f.expired
	f.expired = 0
	return n, nil
}

func (f *fakeSessionStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRunOnceDeletesExpired(t *testing.T) {
	store := &fakeSessionStore{expired: 3}
	job := NewSessionCleanup(store, time.Hour, nil)

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if store.expired != 0 {
		t.Fatalf("expired rows remain: %d", store.expired)
	}
}

func TestRunOnceSurfacesStoreError(t *testing.T) {
	store := &fakeSessionStore{fail: true}
	job := NewSessionCleanup(store, time.Hour, nil)

	if err := job.RunOnce(context.Background()); err == nil {
		t.Fatalf("store failure must surface")
	}
}

func TestRunSweepsOnTickUntilCancelled(t *testing.T) {
	store := &fakeSessionStore{}
	job := NewSessionCleanup(store, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.callCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("job swept %d times, want at least 3", store.callCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("job did not stop on context cancel")
	}
}

func TestRunWithoutStoreReturnsImmediately(t *testing.T) {
	job := NewSessionCleanup(nil, time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		job.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("nil store must not start the loop")
	}
}
