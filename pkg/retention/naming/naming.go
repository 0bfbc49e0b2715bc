package naming

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Tier identifies one of the managed storage directories.
type Tier int

const (
	// ShortTerm holds raw daily snapshots of the active log.
	ShortTerm Tier = iota
	// MediumTerm holds compressed archive bundles.
	MediumTerm
	// LongTerm holds archive bundles promoted out of the medium tier.
	LongTerm
)

// String returns the tier name used in logs and metrics labels.
func (t Tier) String() string {
	switch t {
	case ShortTerm:
		return "short_term"
	case MediumTerm:
		return "medium_term"
	case LongTerm:
		return "long_term"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Tiers lists every tier in lifecycle order.
var Tiers = []Tier{ShortTerm, MediumTerm, LongTerm}

const (
	// DateLayout is the day-granularity date format embedded in filenames.
	DateLayout = "01_02_2006"

	SnapshotPrefix = "log_"
	SnapshotSuffix = ".txt"

	BundlePrefix = "medium_logs_"
	BundleSuffix = ".tar.gz"
)

// ErrParseFailure is matched by every error returned from Decode.
var ErrParseFailure = errors.New("filename does not encode a date")

// ParseFailure describes a filename that is not a member of a tier.
type ParseFailure struct {
	Tier   Tier
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.Tier, e.Name, e.Reason)
}

// Is reports whether target is ErrParseFailure.
func (e *ParseFailure) Is(target error) bool {
	return target == ErrParseFailure
}

func affixes(t Tier) (prefix, suffix string) {
	if t == ShortTerm {
		return SnapshotPrefix, SnapshotSuffix
	}
	return BundlePrefix, BundleSuffix
}

// Encode returns the filename for a member of tier t dated d.
// Only the calendar date of d in its own location is used.
func Encode(t Tier, d time.Time) string {
	prefix, suffix := affixes(t)
	return prefix + d.Format(DateLayout) + suffix
}

// Decode extracts the embedded date from name. The returned time is local
// midnight of that date.
func Decode(t Tier, name string) (time.Time, error) {
	return DecodeIn(t, name, time.Local)
}

// DecodeIn is Decode with an explicit location for the returned midnight.
func DecodeIn(t Tier, name string, loc *time.Location) (time.Time, error) {
	prefix, suffix := affixes(t)

	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return time.Time{}, &ParseFailure{Tier: t, Name: name, Reason: "unexpected prefix or suffix"}
	}
	if len(name) < len(prefix)+len(suffix) {
		return time.Time{}, &ParseFailure{Tier: t, Name: name, Reason: "name too short"}
	}

	stem := name[len(prefix) : len(name)-len(suffix)]
	if len(stem) != len(DateLayout) {
		return time.Time{}, &ParseFailure{Tier: t, Name: name, Reason: "malformed date field"}
	}

	d, err := time.ParseInLocation(DateLayout, stem, loc)
	if err != nil {
		return time.Time{}, &ParseFailure{Tier: t, Name: name, Reason: err.Error()}
	}

	// time.Parse accepts a few lenient forms; the canonical encoding must
	// reproduce the name exactly.
	if d.Format(DateLayout) != stem {
		return time.Time{}, &ParseFailure{Tier: t, Name: name, Reason: "non-canonical date"}
	}

	return d, nil
}

// IsMember reports whether name decodes under tier t.
func IsMember(t Tier, name string) bool {
	_, err := Decode(t, name)
	return err == nil
}
