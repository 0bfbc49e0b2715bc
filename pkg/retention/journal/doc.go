// Package journal keeps a SQLite history of retention cycles.
//
// Each completed cycle is stored with its ID, timing, per-step counts and
// any error, so operators can check what the daemon did without reading its
// logs:
//
//	store, err := journal.NewStore(&journal.Config{Path: "logkeeper.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	daemon, _ := scheduler.NewDaemon(scheduler.Config{
//	    // ...
//	    Observers: []scheduler.Observer{store},
//	})
//
// # Drivers
//
// Two drivers are registered. "sqlite" (modernc.org/sqlite) is pure Go and
// the default; "sqlite3" (github.com/mattn/go-sqlite3) requires cgo.
//
// The journal is never consulted when deciding what to rotate, archive,
// promote or expire; those decisions are always derived from the
// directories themselves.
package journal
