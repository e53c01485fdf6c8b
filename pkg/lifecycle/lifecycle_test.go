package lifecycle_test

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
)

type flag struct{ ok atomic.Bool }

func (f *flag) Ready() bool { return f.ok.Load() }

func TestPendingBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
	if got := lc.Pending(); !slices.Equal(got, []string{"startup"}) {
		t.Errorf("pending: got %v", got)
	}
}

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() { count.Add(1) })
	}
	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
}

func TestTrackedCheckHoldsReadiness(t *testing.T) {
	lc := lifecycle.New()
	db := &flag{}
	blob := &flag{}
	blob.ok.Store(true)

	lc.Track("database", db)
	lc.Track("storage", blob)
	lc.WaitForStartup()

	if lc.Ready() {
		t.Fatal("should not be ready while database is pending")
	}
	if got := lc.Pending(); !slices.Equal(got, []string{"database"}) {
		t.Errorf("pending: got %v", got)
	}

	db.ok.Store(true)
	if !lc.Ready() {
		t.Errorf("should be ready, pending %v", lc.Pending())
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})
	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})
	lc.WaitForStartup()

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error, got nil")
	}
}
