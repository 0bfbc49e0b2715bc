package clock

import (
	"testing"
	"time"
)

func TestFake_AfterFiresOnAdvance(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	ch := f.After(time.Hour)
	if f.Waiters() != 1 {
		t.Fatalf("Waiters() = %d, want 1", f.Waiters())
	}

	f.Advance(30 * time.Minute)
	select {
	case <-ch:
		t.Fatal("timer fired before deadline")
	default:
	}

	f.Advance(30 * time.Minute)
	select {
	case got := <-ch:
		if !got.Equal(start.Add(time.Hour)) {
			t.Errorf("fired at %v, want %v", got, start.Add(time.Hour))
		}
	default:
		t.Fatal("timer did not fire at deadline")
	}

	if f.Waiters() != 0 {
		t.Errorf("Waiters() = %d after firing, want 0", f.Waiters())
	}
}

func TestFake_AfterNonPositiveFiresImmediately(t *testing.T) {
	f := NewFake(time.Now())
	select {
	case <-f.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}
