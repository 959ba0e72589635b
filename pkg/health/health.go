// Package health exposes liveness and readiness probes for the API server.
//
// Liveness reports that the process is up. Readiness combines a manual gate,
// flipped after startup and before shutdown, with on-demand dependency checks
// such as database connectivity.
package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc probes one dependency. It returns nil when the dependency is
// usable.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Health tracks the service's readiness state.
type Health struct {
	ready atomic.Bool

	mu     sync.RWMutex
	checks []check
}

// New creates a Health in the not-ready state. Call SetReady(true) once
// startup finishes.
func New() *Health {
	return &Health{}
}

// AddReadinessCheck registers a dependency probe evaluated on every
// readiness request.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.checks = append(h.checks, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the manual readiness gate. Set false during graceful
// shutdown so load balancers drain traffic before the listener closes.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Ready reports the overall readiness state and any failing checks.
func (h *Health) Ready(ctx context.Context) (bool, map[string]string) {
	failures := make(map[string]string)
	if !h.ready.Load() {
		failures["service"] = "not ready"
	}

	h.mu.RLock()
	checks := h.checks
	h.mu.RUnlock()

	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()
		if err != nil {
			failures[c.name] = err.Error()
		}
	}

	return len(failures) == 0, failures
}

// Register mounts the probe endpoints on mux.
func (h *Health) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleLive)
	mux.HandleFunc("GET /readyz", h.handleReady)
}

func (h *Health) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "ok", nil)
}

func (h *Health) handleReady(w http.ResponseWriter, r *http.Request) {
	ready, failures := h.Ready(r.Context())
	if !ready {
		writeStatus(w, http.StatusServiceUnavailable, "unavailable", failures)
		return
	}
	writeStatus(w, http.StatusOK, "ok", nil)
}

func writeStatus(w http.ResponseWriter, code int, status string, failures map[string]string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Str(status)
	if len(failures) > 0 {
		e.FieldStart("failures")
		e.ObjStart()
		for name, msg := range failures {
			e.FieldStart(name)
			e.Str(msg)
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
