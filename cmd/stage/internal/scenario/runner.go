package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/engine"
	stagetest "github.com/go-drift/stage/pkg/testing"
)

// Options configures Run.
type Options struct {
	// Frames is the number of frames to run. Zero runs one frame per
	// scripted frame (at least one), or until ctx ends when DebugAddr is set.
	Frames int
	// TickRate paces the frames. Zero runs them back to back.
	TickRate float64
	// DebugAddr starts the debug HTTP server on this address when set.
	DebugAddr string
	// Logger receives runtime records.
	Logger *slog.Logger
	// OnDebugServer is called with the server's address once it listens.
	OnDebugServer func(addr string)
}

// Result is the outcome of a run.
type Result struct {
	Scenario   string             `json:"scenario"`
	Frames     uint64             `json:"frames"`
	Deliveries []Delivery         `json:"deliveries"`
	Draws      []stagetest.DrawOp `json:"draws"`
	Tree       string             `json:"tree"`
}

// Run builds s on a fresh runtime driven by a scripted host and runs it.
func Run(ctx context.Context, s *Scenario, opts Options) (*Result, error) {
	host := stagetest.NewScriptedHost()
	for _, events := range s.Events() {
		host.QueueFrame(events...)
	}

	frames := opts.Frames
	if frames == 0 && opts.DebugAddr == "" {
		frames = max(len(s.Events()), 1)
	}

	rt := engine.New(host, engine.Options{
		Logger:    opts.Logger,
		TickRate:  opts.TickRate,
		MaxFrames: frames,
	})
	defer rt.Dispose()

	log := NewLog(func() uint64 { return rt.Frames() + 1 })
	if err := deps.Store(rt.Deps(), log); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	rt.Root().AddAll(s.Build()...)

	if opts.DebugAddr != "" {
		srv, err := rt.StartDebugServer(opts.DebugAddr)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if opts.OnDebugServer != nil {
			opts.OnDebugServer(srv.Addr())
		}
	}

	if err := rt.Run(ctx); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	return &Result{
		Scenario:   s.Name,
		Frames:     rt.Frames(),
		Deliveries: log.Deliveries(),
		Draws:      host.Recorder().Last(),
		Tree:       stagetest.Dump(rt.Root()),
	}, nil
}
