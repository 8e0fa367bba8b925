package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/stage/pkg/node"
)

// waitForServer polls the health endpoint until ready or timeout.
func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://%s/health", addr)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

// serveWhilePumping performs req against h while the test goroutine keeps
// running frames, so handlers that wait on the loop can complete.
func serveWhilePumping(t *testing.T, rt *Runtime, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.ServeHTTP(rec, req)
		close(done)
	}()
	for {
		select {
		case <-done:
			return rec
		default:
			if err := rt.Frame(); err != nil {
				t.Fatalf("frame: %v", err)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func TestDebugServer_StartStop(t *testing.T) {
	rt := New(nil, Options{})
	srv, err := rt.StartDebugServer("127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start debug server: %v", err)
	}
	if again, _ := rt.StartDebugServer("127.0.0.1:0"); again != srv {
		t.Error("second start returned a different server")
	}

	addr := srv.Addr()
	if err := waitForServer(addr, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	if err != nil {
		t.Fatalf("failed to reach health endpoint: %v", err)
	}
	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	resp.Body.Close()
	if health["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", health["status"])
	}

	rt.Dispose()
	if _, err := http.Get(fmt.Sprintf("http://%s/health", addr)); err == nil {
		t.Error("server still answering after Dispose")
	}
}

func TestDebugServer_Tree(t *testing.T) {
	rt := New(nil, Options{})
	inner := node.NewContainer(&node.Func{})
	inner.SetName("inner")
	rt.Root().Add(inner)
	srv := &DebugServer{rt: rt}

	rec := serveWhilePumping(t, rt, srv.Handler(), httptest.NewRequest(http.MethodGet, "/tree", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var tree TreeNode
	if err := json.Unmarshal(rec.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tree.Name != "root" || len(tree.Children) != 1 {
		t.Fatalf("unexpected root: %+v", tree)
	}
	child := tree.Children[0]
	if child.Name != "inner" || child.Type != "*node.Container" || !child.IgnoreHierarchy {
		t.Errorf("unexpected child: %+v", child)
	}
	if child.State != node.LoadComplete.String() || len(child.Children) != 1 {
		t.Errorf("child state %q with %d children", child.State, len(child.Children))
	}
}

func TestDebugServer_TreeWithoutLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the snapshot timeout")
	}
	rt := New(nil, Options{})
	srv := &DebugServer{rt: rt}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a running loop, got %d", rec.Code)
	}
}

func TestDebugServer_Deps(t *testing.T) {
	rt := New(nil, Options{})
	srv := &DebugServer{rt: rt}
	rec := serveWhilePumping(t, rt, srv.Handler(), httptest.NewRequest(http.MethodGet, "/deps", nil))

	var body struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Keys) != 3 {
		t.Errorf("keys = %v, want the three runtime services", body.Keys)
	}
}

func TestDebugServer_Frames(t *testing.T) {
	rt := New(nil, Options{})
	for range 5 {
		if err := rt.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	srv := &DebugServer{rt: rt}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frames?limit=2", nil))

	var timeline FrameTimeline
	if err := json.Unmarshal(rec.Body.Bytes(), &timeline); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(timeline.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(timeline.Samples))
	}
	if timeline.Samples[0].Frame != 4 || timeline.Samples[1].Frame != 5 {
		t.Errorf("frames = %d,%d, want 4,5", timeline.Samples[0].Frame, timeline.Samples[1].Frame)
	}
}

func TestDebugServer_Metrics(t *testing.T) {
	rt := New(nil, Options{})
	if err := rt.Frame(); err != nil {
		t.Fatal(err)
	}
	srv := &DebugServer{rt: rt}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "stage_frames_total 1") {
		t.Errorf("metrics missing frame counter:\n%s", body)
	}
}

func TestDebugServer_RuntimeDisabled(t *testing.T) {
	srv := &DebugServer{rt: New(nil, Options{})}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runtime", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestDebugServer_MethodNotAllowed(t *testing.T) {
	srv := &DebugServer{rt: New(nil, Options{})}
	for _, path := range []string{"/health", "/frames", "/tree", "/runtime", "/deps"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s = %d, want 405", path, rec.Code)
		}
	}
}
