package tier

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"mercator-hq/logkeeper/pkg/retention/bundle"
	"mercator-hq/logkeeper/pkg/retention/clock"
	"mercator-hq/logkeeper/pkg/retention/naming"
	"mercator-hq/logkeeper/pkg/retention/policy"
)

// Operation names, used in results, errors, logs and metrics labels.
const (
	OpRotate  = "rotate"
	OpArchive = "archive"
	OpPromote = "promote"
	OpExpire  = "expire"
)

// Layout locates the active log and the three tier directories.
type Layout struct {
	ActiveLog     string
	ShortTermDir  string
	MediumTermDir string
	LongTermDir   string
}

// DefaultLayout returns the default layout rooted at base.
func DefaultLayout(base string) Layout {
	return Layout{
		ActiveLog:     filepath.Join(base, "dummy_log.txt"),
		ShortTermDir:  filepath.Join(base, "logs"),
		MediumTermDir: filepath.Join(base, "medium_term_logs"),
		LongTermDir:   filepath.Join(base, "long_term_logs"),
	}
}

// Dir returns the directory of tier t.
func (l Layout) Dir(t naming.Tier) string {
	switch t {
	case naming.ShortTerm:
		return l.ShortTermDir
	case naming.MediumTerm:
		return l.MediumTermDir
	default:
		return l.LongTermDir
	}
}

// Config contains the collaborators of a Manager.
type Config struct {
	Layout     Layout
	Thresholds policy.Thresholds

	// Clock defaults to the system clock.
	Clock clock.Clock

	// Bundler defaults to a gzip-compressed tar writer.
	Bundler bundle.Writer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result summarizes one operation.
type Result struct {
	Op string

	// Affected lists the entries rotated, bundled, moved or deleted.
	Affected []string

	// Created is the file written by the operation, if any.
	Created string

	// Skipped counts entries that were not tier members.
	Skipped int

	// Bytes is the number of bytes copied by Rotate.
	Bytes int64
}

// Manager performs the tier transitions for one layout.
type Manager struct {
	layout     Layout
	thresholds policy.Thresholds
	clock      clock.Clock
	bundler    bundle.Writer
	logger     *slog.Logger
}

// NewManager creates a Manager. Missing collaborators in cfg are filled
// with defaults.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		layout:     cfg.Layout,
		thresholds: cfg.Thresholds,
		clock:      cfg.Clock,
		bundler:    cfg.Bundler,
		logger:     cfg.Logger,
	}
	if m.clock == nil {
		m.clock = clock.System{}
	}
	if m.bundler == nil {
		m.bundler = bundle.NewTarGz()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With("component", "retention.tier")
	return m
}

// Layout returns the manager's layout.
func (m *Manager) Layout() Layout {
	return m.layout
}

// Thresholds returns the manager's retention thresholds.
func (m *Manager) Thresholds() policy.Thresholds {
	return m.thresholds
}

// EnsureLayout creates the tier directories if they are absent.
func (m *Manager) EnsureLayout() error {
	for _, t := range naming.Tiers {
		dir := m.layout.Dir(t)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory %q: %w", t, dir, err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("failed to stat %s directory %q: %w", t, dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s directory %q: %w", t, dir, ErrNotDirectory)
		}
	}
	return nil
}

// Rotate copies the active log into today's short-term snapshot and
// truncates the active log. A missing or empty active log is a no-op.
func (m *Manager) Rotate() (Result, error) {
	res := Result{Op: OpRotate}
	active := m.layout.ActiveLog

	info, err := os.Stat(active)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		m.logger.Info("no log file to rotate", "active_log", active)
		return res, nil
	}
	if err != nil {
		return res, opErr(OpRotate, active, err)
	}
	if info.IsDir() {
		return res, opErr(OpRotate, active, errors.New("active log is a directory"))
	}

	name := naming.Encode(naming.ShortTerm, m.clock.Now())
	snapshot := filepath.Join(m.layout.ShortTermDir, name)

	appended := false
	if _, err := os.Stat(snapshot); err == nil {
		appended = true
		m.logger.Warn("snapshot for today already exists, appending",
			"snapshot", snapshot,
		)
	}

	n, err := drainLog(active, snapshot)
	if err != nil {
		return res, opErr(OpRotate, snapshot, err)
	}

	res.Affected = []string{name}
	res.Created = name
	res.Bytes = n

	m.logger.Info("rotated active log",
		"active_log", active,
		"snapshot", snapshot,
		"bytes", n,
		"appended", appended,
	)

	return res, nil
}

// drainLog appends the contents of src to dst, syncs dst, then truncates
// src through the same handle. Bytes written to src during the copy are
// picked up as long as the size of src keeps growing past what was copied.
func drainLog(src, dst string) (int64, error) {
	in, err := os.OpenFile(src, os.O_RDWR, 0)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return 0, err
	}

	var total int64
	for {
		n, err := io.Copy(out, in)
		total += n
		if err != nil {
			out.Close()
			return total, err
		}
		if n > 0 {
			continue
		}
		info, err := in.Stat()
		if err != nil {
			out.Close()
			return total, err
		}
		if info.Size() <= total {
			break
		}
	}

	if err := out.Sync(); err != nil {
		out.Close()
		return total, err
	}
	if err := out.Close(); err != nil {
		return total, err
	}

	if err := in.Truncate(0); err != nil {
		return total, fmt.Errorf("truncate %s: %w", src, err)
	}
	return total, nil
}

// entry is a decoded tier member.
type entry struct {
	name string
	path string
	date time.Time
	age  int
}

// scan lists the members of tier t. Foreign entries are logged and counted
// in skipped.
func (m *Manager) scan(op string, t naming.Tier) (members []entry, skipped int, err error) {
	dir := m.layout.Dir(t)

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, opErr(op, dir, err)
	}

	now := m.clock.Now()
	for _, de := range dirents {
		if de.IsDir() {
			skipped++
			m.logger.Debug("skipping directory", "op", op, "tier", t.String(), "name", de.Name())
			continue
		}

		date, err := naming.Decode(t, de.Name())
		if err != nil {
			skipped++
			m.logger.Info("skipping unrecognized file", "op", op, "tier", t.String(), "error", err)
			continue
		}

		// Symlinks are followed; only regular files are members.
		path := filepath.Join(dir, de.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			skipped++
			attrs := []any{"op", op, "tier", t.String(), "name", de.Name()}
			if err != nil {
				attrs = append(attrs, "error", err)
			} else {
				attrs = append(attrs, "mode", info.Mode().Type().String())
			}
			m.logger.Warn("skipping entry that is not a regular file", attrs...)
			continue
		}

		members = append(members, entry{
			name: de.Name(),
			path: path,
			date: date,
			age:  policy.AgeDays(date, now),
		})
	}

	return members, skipped, nil
}

// Archive bundles every short-term snapshot with the Archive disposition
// into one medium-term bundle dated today, then removes the snapshots.
// When no snapshot is eligible nothing is written.
func (m *Manager) Archive() (Result, error) {
	res := Result{Op: OpArchive}

	members, skipped, err := m.scan(OpArchive, naming.ShortTerm)
	res.Skipped = skipped
	if err != nil {
		return res, err
	}

	var eligible []entry
	for _, e := range members {
		switch {
		case policy.Decide(naming.ShortTerm, e.age, m.thresholds) == policy.Archive:
			eligible = append(eligible, e)
		case e.age > m.thresholds.MediumTermDays:
			m.logger.Warn("snapshot is past the archive window, leaving in place",
				"snapshot", e.name,
				"age_days", e.age,
				"medium_term_days", m.thresholds.MediumTermDays,
			)
		}
	}

	if len(eligible) == 0 {
		m.logger.Debug("no snapshots eligible for archiving",
			"short_term_days", m.thresholds.ShortTermDays,
		)
		return res, nil
	}

	name := naming.Encode(naming.MediumTerm, m.clock.Now())
	dest := filepath.Join(m.layout.MediumTermDir, name)

	paths := make([]string, len(eligible))
	for i, e := range eligible {
		paths[i] = e.path
	}

	if err := m.bundler.Write(dest, paths); err != nil {
		return res, opErr(OpArchive, dest, err)
	}
	res.Created = name

	var errs []error
	for _, e := range eligible {
		if err := os.Remove(e.path); err != nil {
			errs = append(errs, opErr(OpArchive, e.path, err))
			m.logger.Error("failed to remove archived snapshot",
				"snapshot", e.path,
				"error", err,
			)
			continue
		}
		res.Affected = append(res.Affected, e.name)
	}

	m.logger.Info("archived snapshots",
		"bundle", dest,
		"snapshot_count", len(res.Affected),
	)

	return res, errors.Join(errs...)
}

// Promote moves medium-term bundles with the Promote disposition into the
// long-term tier, keeping their names. A bundle whose name is already taken
// in the long-term tier is left in place.
func (m *Manager) Promote() (Result, error) {
	res := Result{Op: OpPromote}

	members, skipped, err := m.scan(OpPromote, naming.MediumTerm)
	res.Skipped = skipped
	if err != nil {
		return res, err
	}

	var errs []error
	for _, e := range members {
		if policy.Decide(naming.MediumTerm, e.age, m.thresholds) != policy.Promote {
			continue
		}

		dest := filepath.Join(m.layout.LongTermDir, e.name)
		if _, err := os.Lstat(dest); err == nil {
			m.logger.Warn("long-term bundle already exists, not promoting",
				"bundle", e.name,
			)
			continue
		}

		if err := moveFile(e.path, dest); err != nil {
			errs = append(errs, opErr(OpPromote, e.path, err))
			m.logger.Error("failed to promote bundle",
				"bundle", e.path,
				"error", err,
			)
			continue
		}

		res.Affected = append(res.Affected, e.name)
		m.logger.Info("promoted bundle to long-term storage",
			"bundle", e.name,
			"age_days", e.age,
		)
	}

	return res, errors.Join(errs...)
}

// Expire deletes long-term bundles with the Expire disposition.
func (m *Manager) Expire() (Result, error) {
	res := Result{Op: OpExpire}

	members, skipped, err := m.scan(OpExpire, naming.LongTerm)
	res.Skipped = skipped
	if err != nil {
		return res, err
	}

	var errs []error
	for _, e := range members {
		if policy.Decide(naming.LongTerm, e.age, m.thresholds) != policy.Expire {
			continue
		}

		if err := os.Remove(e.path); err != nil {
			errs = append(errs, opErr(OpExpire, e.path, err))
			m.logger.Error("failed to delete expired bundle",
				"bundle", e.path,
				"error", err,
			)
			continue
		}

		res.Affected = append(res.Affected, e.name)
		m.logger.Info("deleted expired bundle",
			"bundle", e.name,
			"age_days", e.age,
		)
	}

	return res, errors.Join(errs...)
}

// moveFile renames src to dst, falling back to copy and remove when the
// tiers live on different filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Remove(src)
}
