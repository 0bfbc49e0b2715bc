// Package scheduler drives the daily retention cycle.
//
// # State Machine
//
// A Daemon has two states. In Waiting it is suspended until the next
// trigger time; in Running it executes one cycle:
//
//	rotate -> archive -> promote -> expire
//
// The steps always run in that order and synchronously. A step that fails
// is logged and recorded in the CycleResult; the remaining steps still run
// because each of them re-derives its work from the directory contents.
// When the cycle completes the daemon returns to Waiting and re-arms.
//
// # Trigger Time
//
// The trigger is a daily hour:minute, evaluated with a robfig/cron schedule:
//
//	trig, _ := scheduler.NewDailyTrigger(0, 0) // midnight
//	next := trig.Next(time.Now())
//
// The next fire time is always strictly after now. If today's trigger time
// has been reached or passed, the daemon waits for the same time tomorrow.
//
// # Testing
//
// Time is read through clock.Clock, so tests drive the daemon with
// clock.Fake instead of waiting in real time.
//
// # Shutdown
//
// Run returns nil when its context is cancelled. Cancellation interrupts
// the wait; a cycle already running is allowed to finish first.
package scheduler
