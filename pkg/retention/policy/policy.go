// Package policy classifies archive files by age. It is pure: no filesystem
// access, no clock reads.
package policy

import (
	"fmt"
	"time"

	"mercator-hq/logkeeper/pkg/retention/naming"
)

// Disposition is the lifecycle transition chosen for a file.
type Disposition int

const (
	// Keep leaves the file where it is.
	Keep Disposition = iota
	// Archive folds a short-term snapshot into a medium-term bundle.
	Archive
	// Promote moves a medium-term bundle into long-term storage.
	Promote
	// Expire deletes a long-term bundle.
	Expire
)

// String returns the lowercase disposition name.
func (d Disposition) String() string {
	switch d {
	case Keep:
		return "keep"
	case Archive:
		return "archive"
	case Promote:
		return "promote"
	case Expire:
		return "expire"
	default:
		return fmt.Sprintf("disposition(%d)", int(d))
	}
}

// Default retention thresholds, in days.
const (
	DefaultShortTermDays  = 7
	DefaultMediumTermDays = 30
	DefaultLongTermDays   = 365
)

// Thresholds are the age bucket boundaries, in whole days.
type Thresholds struct {
	ShortTermDays  int
	MediumTermDays int
	LongTermDays   int
}

// DefaultThresholds returns 7/30/365.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShortTermDays:  DefaultShortTermDays,
		MediumTermDays: DefaultMediumTermDays,
		LongTermDays:   DefaultLongTermDays,
	}
}

// Validate checks that the buckets are non-negative and strictly increasing.
func (t Thresholds) Validate() error {
	if t.ShortTermDays < 0 {
		return fmt.Errorf("short-term days must be non-negative, got %d", t.ShortTermDays)
	}
	if t.MediumTermDays <= t.ShortTermDays {
		return fmt.Errorf("medium-term days (%d) must exceed short-term days (%d)",
			t.MediumTermDays, t.ShortTermDays)
	}
	if t.LongTermDays <= t.MediumTermDays {
		return fmt.Errorf("long-term days (%d) must exceed medium-term days (%d)",
			t.LongTermDays, t.MediumTermDays)
	}
	return nil
}

// Decide returns the disposition of a file in tier with the given age.
//
// Buckets are open below and closed above: a snapshot is archived when
// short < age <= medium; bundles are promoted when age > medium and expired
// when age > long. Snapshots older than the medium horizon are kept, matching
// the archive window exactly.
func Decide(tier naming.Tier, ageDays int, t Thresholds) Disposition {
	switch tier {
	case naming.ShortTerm:
		if ageDays > t.ShortTermDays && ageDays <= t.MediumTermDays {
			return Archive
		}
	case naming.MediumTerm:
		if ageDays > t.MediumTermDays {
			return Promote
		}
	case naming.LongTerm:
		if ageDays > t.LongTermDays {
			return Expire
		}
	}
	return Keep
}

// AgeDays returns the number of whole days from the calendar date of
// embedded to the calendar date of now. Dates in the future yield 0.
func AgeDays(embedded, now time.Time) int {
	ey, em, ed := embedded.Date()
	ny, nm, nd := now.Date()

	from := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
