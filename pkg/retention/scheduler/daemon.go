package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/logkeeper/pkg/retention/clock"
	"mercator-hq/logkeeper/pkg/retention/tier"
)

// State is the daemon's position in its wait/run loop.
type State int

const (
	// Waiting means the daemon is suspended until the next trigger.
	Waiting State = iota
	// Running means a cycle is executing.
	Running
)

// String returns "waiting" or "running".
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "waiting"
}

// Tiers performs the four lifecycle transitions. *tier.Manager implements it.
type Tiers interface {
	Rotate() (tier.Result, error)
	Archive() (tier.Result, error)
	Promote() (tier.Result, error)
	Expire() (tier.Result, error)
}

// StepResult is the outcome of one step of a cycle.
type StepResult struct {
	Op       string
	Result   tier.Result
	Err      error
	Duration time.Duration
}

// CycleResult is the outcome of one full cycle.
type CycleResult struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Steps    []StepResult
}

// Err joins the errors of all failed steps.
func (c CycleResult) Err() error {
	var errs []error
	for _, s := range c.Steps {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Op, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Observer is notified after every cycle.
type Observer interface {
	ObserveCycle(ctx context.Context, r CycleResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, r CycleResult)

// ObserveCycle calls f.
func (f ObserverFunc) ObserveCycle(ctx context.Context, r CycleResult) {
	f(ctx, r)
}

// Config contains the collaborators of a Daemon.
type Config struct {
	Tiers   Tiers
	Trigger *Trigger

	// Clock defaults to the system clock.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	Observers []Observer
}

// Daemon drives the daily retention cycle.
//
// It alternates between Waiting, suspended until the trigger time, and
// Running, executing rotate, archive, promote and expire in that order. A
// failing step is logged and the remaining steps still run; after the cycle
// the daemon re-arms for the next trigger regardless of the outcome.
type Daemon struct {
	clock     clock.Clock
	logger    *slog.Logger
	observers []Observer

	mu      sync.Mutex
	tiers   Tiers
	trigger *Trigger
	state   State
	next    time.Time
	pending *Config
	rearm   chan struct{}
}

// NewDaemon creates a Daemon in the Waiting state.
func NewDaemon(cfg Config) (*Daemon, error) {
	if cfg.Tiers == nil {
		return nil, errors.New("scheduler: tiers are required")
	}
	if cfg.Trigger == nil {
		return nil, errors.New("scheduler: trigger is required")
	}

	d := &Daemon{
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		observers: cfg.Observers,
		tiers:     cfg.Tiers,
		trigger:   cfg.Trigger,
		state:     Waiting,
		rearm:     make(chan struct{}, 1),
	}
	if d.clock == nil {
		d.clock = clock.System{}
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("component", "retention.scheduler")

	return d, nil
}

// Run loops until ctx is cancelled, waiting for each trigger and running a
// cycle when it fires. A cycle already in progress when ctx is cancelled is
// completed before Run returns. Run returns nil on cancellation.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("retention daemon started", "schedule", d.currentTrigger().Spec())

	for {
		now := d.clock.Now()
		next := d.arm(now)

		d.logger.Info("waiting for next cycle",
			"next_run", next,
			"wait", next.Sub(now).Round(time.Second).String(),
		)

		select {
		case <-ctx.Done():
			d.logger.Info("retention daemon stopped")
			return nil
		case <-d.rearm:
			continue
		case <-d.clock.After(next.Sub(now)):
		}

		d.RunCycle(ctx)
	}
}

// arm applies any pending reload, enters Waiting and records the next
// trigger time.
func (d *Daemon) arm(now time.Time) time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.tiers = d.pending.Tiers
		d.trigger = d.pending.Trigger
		d.pending = nil
		d.logger.Info("applied reloaded configuration", "schedule", d.trigger.Spec())
	}

	d.state = Waiting
	d.next = d.trigger.Next(now)
	return d.next
}

// RunCycle runs one cycle synchronously: rotate, archive, promote, expire.
func (d *Daemon) RunCycle(ctx context.Context) CycleResult {
	d.mu.Lock()
	d.state = Running
	tiers := d.tiers
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.state = Waiting
		d.mu.Unlock()
	}()

	res := CycleResult{
		ID:      uuid.New().String(),
		Started: d.clock.Now(),
	}
	logger := d.logger.With("cycle_id", res.ID)
	logger.Info("starting retention cycle")

	steps := []struct {
		op  string
		run func() (tier.Result, error)
	}{
		{tier.OpRotate, tiers.Rotate},
		{tier.OpArchive, tiers.Archive},
		{tier.OpPromote, tiers.Promote},
		{tier.OpExpire, tiers.Expire},
	}

	for _, step := range steps {
		start := d.clock.Now()
		r, err := step.run()
		sr := StepResult{
			Op:       step.op,
			Result:   r,
			Err:      err,
			Duration: d.clock.Now().Sub(start),
		}
		res.Steps = append(res.Steps, sr)

		if err != nil {
			logger.Error("cycle step failed", "step", step.op, "error", err)
			continue
		}
		logger.Debug("cycle step completed",
			"step", step.op,
			"affected", len(r.Affected),
			"skipped", r.Skipped,
		)
	}

	res.Finished = d.clock.Now()

	if err := res.Err(); err != nil {
		logger.Error("retention cycle completed with errors", "error", err)
	} else {
		logger.Info("retention cycle completed",
			"rotated", len(res.Steps[0].Result.Affected),
			"archived", len(res.Steps[1].Result.Affected),
			"promoted", len(res.Steps[2].Result.Affected),
			"expired", len(res.Steps[3].Result.Affected),
		)
	}

	for _, o := range d.observers {
		o.ObserveCycle(ctx, res)
	}

	return res
}

// Reload replaces the tiers and trigger. A waiting daemon re-arms against
// the new trigger immediately; a running cycle finishes with the old tiers.
func (d *Daemon) Reload(tiers Tiers, trigger *Trigger) {
	d.mu.Lock()
	d.pending = &Config{Tiers: tiers, Trigger: trigger}
	d.mu.Unlock()

	select {
	case d.rearm <- struct{}{}:
	default:
	}
}

// State returns the current state.
func (d *Daemon) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// NextRun returns the trigger time the daemon is waiting for, or the zero
// time before Run has armed it.
func (d *Daemon) NextRun() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next
}

func (d *Daemon) currentTrigger() *Trigger {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trigger
}
