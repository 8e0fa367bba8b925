// Package engine runs a node tree against a host: it owns the frame loop,
// the dependency store shared by the tree and the per-runtime diagnostics.
//
// A frame drains the dispatch queue, delivers the host's polled events to
// the root in order, updates, draws the tree and then its overlay, and
// presents:
//
//	rt := engine.New(host, engine.Options{TickRate: 60})
//	rt.Root().Add(scene)
//	if err := rt.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// All tree access happens on the goroutine calling Frame or Run. Other
// goroutines hand work to it with Dispatch.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
	"github.com/go-drift/stage/pkg/overlay"
)

// Host is the platform side of a runtime: it supplies input, the draw
// surface, and presents finished frames.
type Host interface {
	// Poll returns the events received since the previous call, in order.
	Poll() []input.Event
	// Surface returns the target for this frame's draw calls.
	Surface() node.Surface
	// Present shows the frame drawn onto Surface.
	Present() error
}

// Options configures a Runtime. The zero value runs unpaced with a discarded
// logger and a private metrics registry.
type Options struct {
	// Logger receives runtime records. Nil discards them.
	Logger *slog.Logger
	// TickRate caps Run at this many frames per second. Zero or less runs
	// frames back to back.
	TickRate float64
	// MaxFrames stops Run after this many frames. Zero runs until stopped.
	MaxFrames int
	// Registry receives the runtime's metrics. Nil creates a private one.
	Registry *prometheus.Registry
	// TraceSamples is the number of frame samples kept. Defaults to 240.
	TraceSamples int
	// SlowFrame is the duration above which a frame counts as dropped.
	// Defaults to 16.67ms.
	SlowFrame time.Duration
	// RuntimeSampleInterval enables memory sampling while Run is active.
	// Zero disables it.
	RuntimeSampleInterval time.Duration
}

// Runtime owns a root container and drives it frame by frame.
type Runtime struct {
	host    Host
	root    *node.Container
	deps    *deps.Container
	overlay *overlay.Compositor
	logger  *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics
	trace    *FrameTraceBuffer
	samples  *RuntimeSampleBuffer

	limiter   *rate.Limiter
	maxFrames int

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	runMu  sync.Mutex
	cancel context.CancelFunc

	debugMu sync.Mutex
	debug   *DebugServer

	started  bool
	disposed bool
	frame    uint64
}

// New returns a runtime for host. A nil host runs without input or
// presentation, which is useful for headless tests.
func New(host Host, opts Options) *Runtime {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	r := &Runtime{
		host:      host,
		root:      &node.Container{},
		deps:      deps.New(),
		overlay:   &overlay.Compositor{},
		logger:    logger,
		registry:  registry,
		metrics:   newMetrics(registry),
		trace:     NewFrameTraceBuffer(opts.TraceSamples, opts.SlowFrame),
		maxFrames: opts.MaxFrames,
	}
	r.root.SetName("root")
	if opts.TickRate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.TickRate), 1)
	}
	if opts.RuntimeSampleInterval > 0 {
		r.samples = NewRuntimeSampleBuffer(0, opts.RuntimeSampleInterval)
	}
	return r
}

// Root returns the container the host's events are routed into.
func (r *Runtime) Root() *node.Container { return r.root }

// Deps returns the dependency store handed to the tree on Start.
func (r *Runtime) Deps() *deps.Container { return r.deps }

// Overlay returns the compositor drawn after the tree.
func (r *Runtime) Overlay() *overlay.Compositor { return r.overlay }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Registry returns the metrics registry.
func (r *Runtime) Registry() *prometheus.Registry { return r.registry }

// Trace returns the frame sample buffer.
func (r *Runtime) Trace() *FrameTraceBuffer { return r.trace }

// Frames returns the number of frames run.
func (r *Runtime) Frames() uint64 { return r.frame }

// Start registers the runtime's services in the store and loads the tree.
// It runs once; later calls do nothing.
func (r *Runtime) Start() error {
	if r.disposed {
		return errors.Lifecycle("engine.Start", "runtime", "disposed", "started")
	}
	if r.started {
		return nil
	}
	if err := deps.Store(r.deps, r); err != nil {
		return err
	}
	if err := deps.Store(r.deps, r.logger); err != nil {
		return err
	}
	if err := deps.Store(r.deps, r.overlay); err != nil {
		return err
	}

	r.root.Load(r.deps)
	r.root.LoadComplete()
	r.started = true
	r.metrics.nodes.Set(float64(countTree(r.root)))
	r.logger.Info("runtime started", slog.Int("nodes", countTree(r.root)), slog.Int("deps", r.deps.Len()))
	return nil
}

// Frame runs one frame, starting the runtime first if needed. A panic
// inside the frame is recovered, reported and returned as an
// *errors.PanicError.
func (r *Runtime) Frame() (err error) {
	if r.disposed {
		return errors.Lifecycle("engine.Frame", "runtime", "disposed", "running")
	}
	if !r.started {
		if err := r.Start(); err != nil {
			return err
		}
	}

	begin := time.Now()
	sample := FrameSample{Frame: r.frame + 1, Timestamp: begin.UnixMilli()}
	defer func() {
		r.frame++
		r.record(sample, time.Since(begin))
	}()
	defer errors.RecoverWithCallback("engine.Frame", func(pe *errors.PanicError) {
		sample.Panicked = true
		r.metrics.panics.Inc()
		err = pe
	})

	phase := time.Now()
	callbacks := r.drainDispatchQueue()
	for _, cb := range callbacks {
		cb()
	}
	sample.Counts.Dispatched = len(callbacks)
	sample.Phases.DispatchMs = since(&phase)

	if r.host != nil {
		events := r.host.Poll()
		for _, e := range events {
			r.root.Dispatch(e)
			r.metrics.events.WithLabelValues(e.Kind.String()).Inc()
		}
		sample.Counts.Events = len(events)
	}
	sample.Phases.InputMs = since(&phase)

	r.root.Update()
	r.overlay.Update()
	sample.Phases.UpdateMs = since(&phase)

	var surface node.Surface
	if r.host != nil {
		surface = r.host.Surface()
	}
	r.root.Draw(surface)
	r.overlay.Draw(r.root, surface)
	sample.Phases.DrawMs = since(&phase)

	if r.host != nil {
		if perr := r.host.Present(); perr != nil {
			err = fmt.Errorf("engine: present: %w", perr)
		}
	}
	sample.Phases.PresentMs = since(&phase)
	return err
}

// Run starts the runtime and runs frames, paced by TickRate, until ctx is
// done, Stop is called or MaxFrames is reached. It returns the first frame
// error.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.runMu.Lock()
	r.cancel = cancel
	r.runMu.Unlock()
	defer func() {
		r.runMu.Lock()
		r.cancel = nil
		r.runMu.Unlock()
	}()

	if r.samples != nil {
		sampling, stopSampling := context.WithCancel(ctx)
		done := sampleRuntime(sampling, r.samples)
		defer func() {
			stopSampling()
			<-done
		}()
	}

	r.logger.Debug("runtime loop started", slog.Bool("paced", r.limiter != nil))
	for frames := 0; r.maxFrames <= 0 || frames < r.maxFrames; frames++ {
		if ctx.Err() != nil {
			break
		}
		// Wait fails only when ctx ends, or would end, before the next tick.
		if r.limiter != nil && r.limiter.Wait(ctx) != nil {
			break
		}
		if err := r.Frame(); err != nil {
			r.logger.Error("frame failed", slog.Uint64("frame", r.frame), slog.Any("err", err))
			return err
		}
	}
	r.logger.Debug("runtime loop stopped", slog.Uint64("frames", r.frame))
	return nil
}

// Stop ends a Run in progress after the current frame. It is safe to call
// from any goroutine, including from inside a frame.
func (r *Runtime) Stop() {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Dispatch queues fn to run at the start of the next frame on the loop
// goroutine. Safe for concurrent use.
func (r *Runtime) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	r.dispatchMu.Lock()
	r.dispatchQueue = append(r.dispatchQueue, fn)
	r.dispatchMu.Unlock()
}

func (r *Runtime) drainDispatchQueue() []func() {
	r.dispatchMu.Lock()
	callbacks := r.dispatchQueue
	r.dispatchQueue = nil
	r.dispatchMu.Unlock()
	return callbacks
}

// Dispose tears down the tree and stops the debug server. The runtime
// cannot be started again.
func (r *Runtime) Dispose() {
	if r.disposed {
		return
	}
	r.Stop()
	r.root.Dispose()
	r.disposed = true
	r.debugMu.Lock()
	srv := r.debug
	r.debug = nil
	r.debugMu.Unlock()
	if srv != nil {
		srv.Close()
	}
	r.logger.Info("runtime disposed", slog.Uint64("frames", r.frame))
}

func (r *Runtime) record(sample FrameSample, d time.Duration) {
	sample.FrameMs = durationToMillis(d)
	sample.Counts.Nodes = countTree(r.root)
	r.trace.Add(sample, d)

	r.metrics.frames.Inc()
	r.metrics.frameSeconds.Observe(d.Seconds())
	r.metrics.nodes.Set(float64(sample.Counts.Nodes))
	if d > r.trace.Threshold() {
		r.logger.Debug("slow frame", slog.Uint64("frame", sample.Frame), slog.Float64("ms", sample.FrameMs))
	}
}

// since returns the milliseconds elapsed since *t and resets it to now.
func since(t *time.Time) float64 {
	now := time.Now()
	ms := durationToMillis(now.Sub(*t))
	*t = now
	return ms
}

func countTree(n node.Node) int {
	count := 1
	if g, ok := n.(interface{ Children() []node.Node }); ok {
		for _, child := range g.Children() {
			count += countTree(child)
		}
	}
	return count
}
