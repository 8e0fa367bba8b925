package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-drift/stage/pkg/deps"
)

// treeTimeout bounds how long /tree waits for the loop to take a snapshot.
const treeTimeout = 2 * time.Second

// DebugServer serves runtime diagnostics over HTTP:
//
//	/tree     JSON node tree, captured on the loop goroutine
//	/deps     registered dependency keys
//	/frames   recent frame samples (?limit=N&min_ms=F)
//	/runtime  memory samples when runtime sampling is enabled
//	/metrics  prometheus exposition
//	/health   liveness
type DebugServer struct {
	rt       *Runtime
	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// StartDebugServer listens on addr (":0" picks a free port) and serves the
// runtime's diagnostics until Close or Dispose. A second call returns the
// running server.
func (r *Runtime) StartDebugServer(addr string) (*DebugServer, error) {
	r.debugMu.Lock()
	defer r.debugMu.Unlock()
	if r.debug != nil {
		return r.debug, nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen: %w", err)
	}
	d := &DebugServer{rt: r, listener: listener}
	server := &http.Server{Handler: d.Handler(), ReadHeaderTimeout: 5 * time.Second}
	d.server = server
	r.debug = d

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			r.logger.Error("debug server stopped", slog.Any("err", err))
		}
	}()
	r.logger.Info("debug server listening", slog.String("addr", listener.Addr().String()))
	return d, nil
}

// Addr returns the address the server listens on.
func (d *DebugServer) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Close shuts the server down, waiting up to two seconds for requests in
// flight.
func (d *DebugServer) Close() error {
	d.mu.Lock()
	server := d.server
	d.server = nil
	d.listener = nil
	d.mu.Unlock()
	if server == nil {
		return nil
	}

	d.rt.debugMu.Lock()
	if d.rt.debug == d {
		d.rt.debug = nil
	}
	d.rt.debugMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// Handler returns the server's routes, for mounting elsewhere or testing.
func (d *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tree", d.handleTree)
	mux.HandleFunc("/deps", d.handleDeps)
	mux.HandleFunc("/frames", d.handleFrames)
	mux.HandleFunc("/runtime", d.handleRuntime)
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(d.rt.registry, promhttp.HandlerOpts{}))
	return mux
}

// onLoop runs fn on the loop goroutine and waits for it, or fails after
// treeTimeout when no frame runs.
func (d *DebugServer) onLoop(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	d.rt.Dispatch(func() {
		defer close(done)
		fn()
	})
	ctx, cancel := context.WithTimeout(ctx, treeTimeout)
	defer cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DebugServer) handleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		tree     TreeNode
		panicked any
	)
	err := d.onLoop(r.Context(), func() {
		defer func() { panicked = recover() }()
		tree = Snapshot(d.rt.root)
	})
	if err != nil {
		http.Error(w, "frame loop not running", http.StatusServiceUnavailable)
		return
	}
	if panicked != nil {
		http.Error(w, fmt.Sprintf("panic: %v", panicked), http.StatusInternalServerError)
		return
	}
	writeJSON(w, tree)
}

func (d *DebugServer) handleDeps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var keys []deps.Key
	if err := d.onLoop(r.Context(), func() { keys = d.rt.deps.Keys() }); err != nil {
		http.Error(w, "frame loop not running", http.StatusServiceUnavailable)
		return
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	writeJSON(w, struct {
		Keys []string `json:"keys"`
	}{Keys: names})
}

func (d *DebugServer) handleFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := d.rt.trace.Snapshot()
	applyFrameFilters(r, &resp)
	writeJSON(w, resp)
}

func (d *DebugServer) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if d.rt.samples == nil {
		http.Error(w, "runtime sampling disabled", http.StatusServiceUnavailable)
		return
	}
	samples := d.rt.samples.Snapshot()
	if limit := parseLimit(r); limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	writeJSON(w, struct {
		Samples []RuntimeSample `json:"samples"`
	}{Samples: samples})
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to a buffer first so encoding errors still produce a 500.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func applyFrameFilters(r *http.Request, resp *FrameTimeline) {
	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		filtered := make([]FrameSample, 0, len(resp.Samples))
		for _, s := range resp.Samples {
			if s.FrameMs >= v {
				filtered = append(filtered, s)
			}
		}
		resp.Samples = filtered
	}
	if limit := parseLimit(r); limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}

func parseLimit(r *http.Request) int {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
