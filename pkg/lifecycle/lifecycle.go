// Package lifecycle coordinates startup and shutdown hooks and tracks
// per-subsystem readiness.
package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

type check struct {
	name    string
	checker ReadinessChecker
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu      sync.RWMutex
	started bool
	checks  []check
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Track adds a named readiness check consulted by Ready and Pending.
func (c *Coordinator) Track(name string, checker ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check{name: name, checker: checker})
}

// Ready returns true once startup has completed and every tracked
// subsystem reports ready.
func (c *Coordinator) Ready() bool {
	return len(c.Pending()) == 0
}

// Pending lists what is holding readiness back, in registration order.
// "startup" appears while startup hooks are still running.
func (c *Coordinator) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var pending []string
	if !c.started {
		pending = append(pending, "startup")
	}
	for _, ch := range c.checks {
		if !ch.checker.Ready() && !slices.Contains(pending, ch.name) {
			pending = append(pending, ch.name)
		}
	}
	return pending
}

// WaitForStartup blocks until all startup hooks have completed.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
