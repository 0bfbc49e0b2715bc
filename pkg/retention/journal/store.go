package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/logkeeper/pkg/retention/scheduler"
	"mercator-hq/logkeeper/pkg/retention/tier"
)

// Supported driver names.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// Config contains configuration for the journal store.
type Config struct {
	// Driver is the database/sql driver name: "sqlite" or "sqlite3".
	// Default: "sqlite"
	Driver string

	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// KeepCycles is the number of most recent cycles retained after each
	// insert. 0 keeps every cycle.
	KeepCycles int
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:      DriverModernc,
		Path:        "logkeeper.db",
		BusyTimeout: 5 * time.Second,
		KeepCycles:  1000,
	}
}

// StoreError represents an error from the journal database.
type StoreError struct {
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("journal error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

func storeErr(op string, cause error) *StoreError {
	return &StoreError{Operation: op, Cause: cause}
}

// Cycle is one journal row.
type Cycle struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Rotated  int
	Archived int
	Promoted int
	Expired  int
	Skipped  int
	Error    string
}

// Store persists cycle results in SQLite.
type Store struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// NewStore opens (creating if necessary) the journal database.
func NewStore(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverMattn {
		return nil, storeErr("open", fmt.Errorf("unsupported driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "retention.journal")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storeErr("create_dir", err)
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, storeErr("open", err)
	}
	// A single writer; the daemon records one cycle at a time.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("journal initialized",
		"driver", config.Driver,
		"path", config.Path,
		"keep_cycles", config.KeepCycles,
	)

	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return storeErr("set_busy_timeout", err)
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return storeErr("enable_foreign_keys", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return storeErr("create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return storeErr("insert_schema_version", err)
	}

	var version sql.NullInt64
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return storeErr("get_schema_version", err)
	}
	if !version.Valid || version.Int64 != SchemaVersion {
		return storeErr("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version.Int64))
	}
	return nil
}

// Record stores one cycle and its steps, then trims old cycles beyond
// KeepCycles.
func (s *Store) Record(ctx context.Context, r scheduler.CycleResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin", err)
	}
	defer tx.Rollback()

	counts := make(map[string]int, len(r.Steps))
	skipped := 0
	for _, st := range r.Steps {
		counts[st.Op] = len(st.Result.Affected)
		skipped += st.Result.Skipped
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cycles (id, started_at, finished_at, rotated, archived, promoted, expired, skipped, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Started.UnixNano(),
		r.Finished.UnixNano(),
		counts[tier.OpRotate],
		counts[tier.OpArchive],
		counts[tier.OpPromote],
		counts[tier.OpExpire],
		skipped,
		errString(r.Err()),
	)
	if err != nil {
		return storeErr("insert_cycle", err)
	}

	for i, st := range r.Steps {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cycle_steps (cycle_id, seq, op, affected, created, skipped, bytes, duration_ms, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID,
			i,
			st.Op,
			len(st.Result.Affected),
			st.Result.Created,
			st.Result.Skipped,
			st.Result.Bytes,
			st.Duration.Milliseconds(),
			errString(st.Err),
		)
		if err != nil {
			return storeErr("insert_step", err)
		}
	}

	if s.config.KeepCycles > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM cycles WHERE id NOT IN (
				SELECT id FROM cycles ORDER BY started_at DESC LIMIT ?
			)`, s.config.KeepCycles)
		if err != nil {
			return storeErr("trim", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit", err)
	}
	return nil
}

// Recent returns up to limit cycles, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Cycle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, rotated, archived, promoted, expired, skipped, error
		FROM cycles ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, storeErr("query", err)
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var (
			c                 Cycle
			started, finished int64
			errText           sql.NullString
		)
		if err := rows.Scan(&c.ID, &started, &finished,
			&c.Rotated, &c.Archived, &c.Promoted, &c.Expired, &c.Skipped, &errText); err != nil {
			return nil, storeErr("scan", err)
		}
		c.Started = time.Unix(0, started)
		c.Finished = time.Unix(0, finished)
		c.Error = errText.String
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query", err)
	}
	return cycles, nil
}

// Count returns the number of stored cycles.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cycles`).Scan(&n); err != nil {
		return 0, storeErr("count", err)
	}
	return n, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// ObserveCycle implements scheduler.Observer. Journal failures are logged
// and never affect the daemon.
func (s *Store) ObserveCycle(ctx context.Context, r scheduler.CycleResult) {
	// A shutdown signal during the cycle must not drop its record.
	if err := s.Record(context.WithoutCancel(ctx), r); err != nil {
		s.logger.Error("failed to record cycle", "cycle_id", r.ID, "error", err)
	}
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return errors.New("journal: store not open")
	}
	return s.db.Close()
}

func errString(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
