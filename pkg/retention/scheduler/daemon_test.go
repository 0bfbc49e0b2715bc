package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/logkeeper/pkg/retention/clock"
	"mercator-hq/logkeeper/pkg/retention/naming"
	"mercator-hq/logkeeper/pkg/retention/policy"
	"mercator-hq/logkeeper/pkg/retention/tier"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingTiers records the order of calls and fails the ops in failOn.
type recordingTiers struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]bool
}

func (r *recordingTiers) do(op string) (tier.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	if r.failOn[op] {
		return tier.Result{Op: op}, errors.New("permission denied")
	}
	return tier.Result{Op: op, Affected: []string{op + "-file"}}, nil
}

func (r *recordingTiers) Rotate() (tier.Result, error)  { return r.do(tier.OpRotate) }
func (r *recordingTiers) Archive() (tier.Result, error) { return r.do(tier.OpArchive) }
func (r *recordingTiers) Promote() (tier.Result, error) { return r.do(tier.OpPromote) }
func (r *recordingTiers) Expire() (tier.Result, error)  { return r.do(tier.OpExpire) }

func (r *recordingTiers) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func mustTrigger(t *testing.T, hour, minute int) *Trigger {
	t.Helper()
	trig, err := NewDailyTrigger(hour, minute)
	if err != nil {
		t.Fatalf("NewDailyTrigger() failed: %v", err)
	}
	return trig
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNewDaemon_RequiresCollaborators(t *testing.T) {
	if _, err := NewDaemon(Config{Trigger: mustTrigger(t, 0, 0)}); err == nil {
		t.Error("NewDaemon() without tiers succeeded")
	}
	if _, err := NewDaemon(Config{Tiers: &recordingTiers{}}); err == nil {
		t.Error("NewDaemon() without trigger succeeded")
	}
}

func TestDaemon_RunCycleOrder(t *testing.T) {
	tiers := &recordingTiers{failOn: map[string]bool{tier.OpArchive: true}}

	d, err := NewDaemon(Config{
		Tiers:   tiers,
		Trigger: mustTrigger(t, 0, 0),
		Clock:   clock.NewFake(time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)),
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewDaemon() failed: %v", err)
	}

	res := d.RunCycle(context.Background())

	want := []string{tier.OpRotate, tier.OpArchive, tier.OpPromote, tier.OpExpire}
	got := tiers.Calls()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}

	if res.ID == "" {
		t.Error("cycle has no ID")
	}
	if len(res.Steps) != 4 {
		t.Fatalf("expected 4 step results, got %d", len(res.Steps))
	}
	if res.Steps[1].Err == nil {
		t.Error("archive step error not recorded")
	}
	if err := res.Err(); err == nil || !strings.Contains(err.Error(), "archive") {
		t.Errorf("Err() = %v, want archive failure", err)
	}
	if d.State() != Waiting {
		t.Errorf("State() = %s after cycle, want waiting", d.State())
	}
}

func TestDaemon_RunFiresAtTriggerAndRearms(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 6, 15, 22, 0, 0, 0, time.Local))
	tiers := &recordingTiers{failOn: map[string]bool{tier.OpRotate: true}}
	cycles := make(chan CycleResult, 4)

	d, err := NewDaemon(Config{
		Tiers:   tiers,
		Trigger: mustTrigger(t, 0, 0),
		Clock:   fake,
		Logger:  discardLogger(),
		Observers: []Observer{ObserverFunc(func(_ context.Context, r CycleResult) {
			cycles <- r
		})},
	})
	if err != nil {
		t.Fatalf("NewDaemon() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	waitFor(t, "daemon to arm", func() bool { return fake.Waiters() == 1 })

	firstTrigger := time.Date(2024, 6, 16, 0, 0, 0, 0, time.Local)
	if next := d.NextRun(); !next.Equal(firstTrigger) {
		t.Errorf("NextRun() = %s, want %s", next, firstTrigger)
	}
	if d.State() != Waiting {
		t.Errorf("State() = %s, want waiting", d.State())
	}

	// Not yet.
	fake.Advance(time.Hour)
	select {
	case <-cycles:
		t.Fatal("cycle ran before trigger time")
	case <-time.After(20 * time.Millisecond):
	}

	fake.Advance(time.Hour)
	select {
	case r := <-cycles:
		if r.Err() == nil {
			t.Error("expected rotate failure in cycle result")
		}
	case <-time.After(time.Second):
		t.Fatal("cycle did not run at trigger time")
	}

	// A failed cycle still re-arms for the following day.
	waitFor(t, "daemon to re-arm", func() bool {
		return d.NextRun().Equal(firstTrigger.AddDate(0, 0, 1))
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	if got := len(tiers.Calls()); got != 4 {
		t.Errorf("expected 4 step calls, got %d", got)
	}
}

func TestDaemon_Reload(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local))

	d, err := NewDaemon(Config{
		Tiers:   &recordingTiers{},
		Trigger: mustTrigger(t, 0, 0),
		Clock:   fake,
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewDaemon() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	waitFor(t, "daemon to arm", func() bool { return !d.NextRun().IsZero() })

	replacement := &recordingTiers{}
	d.Reload(replacement, mustTrigger(t, 18, 30))

	want := time.Date(2024, 6, 15, 18, 30, 0, 0, time.Local)
	waitFor(t, "reloaded trigger", func() bool { return d.NextRun().Equal(want) })
	// The timer for the original trigger is abandoned, not fired.
	waitFor(t, "re-armed timer", func() bool { return fake.Waiters() == 2 })

	fake.Advance(6*time.Hour + 30*time.Minute)
	waitFor(t, "cycle on replacement tiers", func() bool { return len(replacement.Calls()) == 4 })
}

func TestDaemon_EndToEndCycle(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)
	fake := clock.NewFake(now)
	layout := tier.DefaultLayout(t.TempDir())

	m := tier.NewManager(tier.Config{
		Layout:     layout,
		Thresholds: policy.DefaultThresholds(),
		Clock:      fake,
		Logger:     discardLogger(),
	})
	if err := m.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout() failed: %v", err)
	}

	write := func(path, content string) {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", path, err)
		}
	}
	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	write(layout.ActiveLog, "hello")
	oldSnap := naming.Encode(naming.ShortTerm, daysAgo(10))
	newSnap := naming.Encode(naming.ShortTerm, daysAgo(3))
	write(filepath.Join(layout.ShortTermDir, oldSnap), "old")
	write(filepath.Join(layout.ShortTermDir, newSnap), "new")
	agedBundle := naming.Encode(naming.MediumTerm, daysAgo(31))
	write(filepath.Join(layout.MediumTermDir, agedBundle), "bundle")
	expired := naming.Encode(naming.LongTerm, daysAgo(366))
	kept := naming.Encode(naming.LongTerm, daysAgo(365))
	write(filepath.Join(layout.LongTermDir, expired), "expired")
	write(filepath.Join(layout.LongTermDir, kept), "kept")

	d, err := NewDaemon(Config{Tiers: m, Trigger: mustTrigger(t, 0, 0), Clock: fake, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewDaemon() failed: %v", err)
	}

	res := d.RunCycle(context.Background())
	if err := res.Err(); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	exists := func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	today := naming.Encode(naming.ShortTerm, now)
	if data, _ := os.ReadFile(filepath.Join(layout.ShortTermDir, today)); string(data) != "hello" {
		t.Errorf("today's snapshot = %q, want hello", data)
	}
	if data, _ := os.ReadFile(layout.ActiveLog); len(data) != 0 {
		t.Errorf("active log not truncated: %q", data)
	}
	if exists(filepath.Join(layout.ShortTermDir, oldSnap)) {
		t.Error("10-day snapshot not archived")
	}
	if !exists(filepath.Join(layout.ShortTermDir, newSnap)) {
		t.Error("3-day snapshot was archived")
	}
	if !exists(filepath.Join(layout.MediumTermDir, naming.Encode(naming.MediumTerm, now))) {
		t.Error("today's medium bundle not created")
	}
	if exists(filepath.Join(layout.MediumTermDir, agedBundle)) || !exists(filepath.Join(layout.LongTermDir, agedBundle)) {
		t.Error("31-day bundle not promoted")
	}
	if exists(filepath.Join(layout.LongTermDir, expired)) {
		t.Error("366-day bundle not expired")
	}
	if !exists(filepath.Join(layout.LongTermDir, kept)) {
		t.Error("365-day bundle was expired")
	}
}

func TestState_String(t *testing.T) {
	if Waiting.String() != "waiting" || Running.String() != "running" {
		t.Errorf("State strings = %q, %q", Waiting, Running)
	}
}
