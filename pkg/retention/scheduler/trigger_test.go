package scheduler

import (
	"testing"
	"time"
)

func TestTrigger_Next(t *testing.T) {
	at := func(d, h, m, s int) time.Time {
		return time.Date(2024, 6, d, h, m, s, 0, time.Local)
	}

	tests := []struct {
		name   string
		hour   int
		minute int
		now    time.Time
		want   time.Time
	}{
		{"midnight from evening", 0, 0, at(15, 21, 0, 0), at(16, 0, 0, 0)},
		{"midnight exactly now fires tomorrow", 0, 0, at(15, 0, 0, 0), at(16, 0, 0, 0)},
		{"just after trigger", 0, 0, at(15, 0, 0, 1), at(16, 0, 0, 0)},
		{"later today", 3, 30, at(15, 1, 0, 0), at(15, 3, 30, 0)},
		{"already passed today", 3, 30, at(15, 4, 0, 0), at(16, 3, 30, 0)},
		{"month rollover", 0, 0, time.Date(2024, 6, 30, 12, 0, 0, 0, time.Local), time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trig, err := NewDailyTrigger(tt.hour, tt.minute)
			if err != nil {
				t.Fatalf("NewDailyTrigger() failed: %v", err)
			}

			got := trig.Next(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("Next(%s) = %s, want %s", tt.now, got, tt.want)
			}
			if !got.After(tt.now) {
				t.Errorf("Next(%s) = %s is not after now", tt.now, got)
			}
		})
	}
}

func TestNewDailyTrigger_Invalid(t *testing.T) {
	for _, hm := range [][2]int{{24, 0}, {-1, 0}, {0, 60}, {12, -5}} {
		if _, err := NewDailyTrigger(hm[0], hm[1]); err == nil {
			t.Errorf("NewDailyTrigger(%d, %d) succeeded, want error", hm[0], hm[1])
		}
	}
}

func TestNewTrigger(t *testing.T) {
	trig, err := NewTrigger("15 2 * * *")
	if err != nil {
		t.Fatalf("NewTrigger() failed: %v", err)
	}
	if trig.Spec() != "15 2 * * *" {
		t.Errorf("Spec() = %q", trig.Spec())
	}

	if _, err := NewTrigger("invalid cron"); err == nil {
		t.Error("NewTrigger(\"invalid cron\") succeeded, want error")
	}
}
