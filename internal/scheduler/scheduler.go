// Package scheduler coalesces perception work requested between frames and
// drains it in a fixed order once per frame.
package scheduler

//go:generate mockgen -destination=mock/mock_pipeline.go -package=schedulermock github.com/KirkDiggler/rpg-perception/internal/scheduler Pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

// Flags is a set of pending perception steps
type Flags uint16

const (
	RefreshLighting Flags = 1 << iota
	RefreshVision
	InitializeLighting
	InitializeVision
	InitializeSounds
	RefreshTiles
	ForceUpdateFog
)

// DefaultInterval is the frame interval used by Run
const DefaultInterval = 50 * time.Millisecond

var flagNames = []struct {
	flag Flags
	name string
}{
	{RefreshLighting, "refreshLighting"},
	{RefreshVision, "refreshVision"},
	{InitializeLighting, "initializeLighting"},
	{InitializeVision, "initializeVision"},
	{InitializeSounds, "initializeSounds"},
	{RefreshTiles, "refreshTiles"},
	{ForceUpdateFog, "forceUpdateFog"},
}

// Has reports whether every flag in f2 is set
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String lists the set flags
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseFlags parses flag names such as "refreshVision"
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
	for _, name := range names {
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, errors.InvalidArgumentf("unknown perception flag %q", name)
		}
	}
	return f, nil
}

// expand adds the steps implied by a request. Initializing a partition
// refreshes it, refreshed lighting changes what is visible, and a forced fog
// update needs fresh vision to explore.
func expand(f Flags) Flags {
	if f.Has(InitializeLighting) {
		f |= RefreshLighting
	}
	if f.Has(InitializeVision) {
		f |= RefreshVision
	}
	if f.Has(RefreshLighting) || f.Has(ForceUpdateFog) {
		f |= RefreshVision
	}
	return f
}

// Pipeline is the perception work a drain performs
type Pipeline interface {
	InitializeSounds(ctx context.Context) error
	InitializeLighting(ctx context.Context) error
	InitializeVision(ctx context.Context) error
	RefreshLighting(ctx context.Context) error
	// RefreshVision recomputes the mask and feeds fog exploration
	RefreshVision(ctx context.Context, forceFog bool) error
	// UpdateFog runs the fog commit and save debounce
	UpdateFog(ctx context.Context) error
	// RestrictVisibility updates placeable visibility, only tiles when tilesOnly
	RestrictVisibility(ctx context.Context, tilesOnly bool) error
}

// Config configures a Scheduler
type Config struct {
	Pipeline Pipeline
	Interval time.Duration
}

// Validate validates the config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Pipeline == nil {
		vb.RequiredField("Pipeline")
	}
	if cfg.Interval < 0 {
		vb.InvalidField("Interval", "must be non-negative")
	}
	return vb.Build()
}

// Scheduler is a coalescing flag register drained once per frame
type Scheduler struct {
	pipeline Pipeline
	interval time.Duration

	mu      sync.Mutex
	pending Flags
	queue   []func()
	wake    chan struct{}

	drainMu sync.Mutex
}

// New creates a scheduler
func New(cfg *Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		pipeline: cfg.Pipeline,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}, nil
}

// Update ORs flags into the pending register. push requests a drain on the
// next frame instead of waiting for the interval.
func (s *Scheduler) Update(flags Flags, push bool) {
	s.mu.Lock()
	s.pending |= expand(flags)
	s.mu.Unlock()
	if push {
		s.signal()
	}
}

// Post queues a mutation to run at the start of the next drain, before any
// step reads perception state
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	s.signal()
}

// Pending returns the flags waiting for the next drain
func (s *Scheduler) Pending() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Drain applies queued mutations then runs the pending steps in order. Flags
// raised while draining wait for the next drain. A failing step is logged and
// the remaining steps still run; the first failure is returned.
func (s *Scheduler) Drain(ctx context.Context) (Flags, error) {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	s.mu.Lock()
	flags := s.pending
	queue := s.queue
	s.pending = 0
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}

	var first error
	run := func(step string, fn func() error) {
		if err := fn(); err != nil {
			slog.Error("perception step failed", "step", step, "flags", flags.String(), "error", err)
			if first == nil {
				first = errors.Wrapf(err, "perception step %s failed", step)
			}
		}
	}

	if flags.Has(InitializeSounds) {
		run("initializeSounds", func() error { return s.pipeline.InitializeSounds(ctx) })
	}
	if flags.Has(InitializeLighting) {
		run("initializeLighting", func() error { return s.pipeline.InitializeLighting(ctx) })
	}
	if flags.Has(InitializeVision) {
		run("initializeVision", func() error { return s.pipeline.InitializeVision(ctx) })
	}
	if flags.Has(RefreshLighting) {
		run("refreshLighting", func() error { return s.pipeline.RefreshLighting(ctx) })
	}
	if flags.Has(RefreshVision) {
		force := flags.Has(ForceUpdateFog)
		run("refreshVision", func() error { return s.pipeline.RefreshVision(ctx, force) })
	}
	run("updateFog", func() error { return s.pipeline.UpdateFog(ctx) })
	if flags.Has(RefreshVision) || flags.Has(RefreshTiles) {
		tilesOnly := !flags.Has(RefreshVision)
		run("restrictVisibility", func() error { return s.pipeline.RestrictVisibility(ctx, tilesOnly) })
	}

	return flags, first
}

// Run drains every interval and whenever work is pushed until ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("perception scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("perception scheduler stopped")
			return nil
		case <-ticker.C:
		case <-s.wake:
		}
		// errors are logged per step and the next frame proceeds
		_, _ = s.Drain(ctx)
	}
}
