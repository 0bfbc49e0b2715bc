// Logkeeper is a log-retention daemon.
//
// Once a day it moves an application's log through three storage tiers:
//   - Rotate: copy the active log into a dated snapshot and truncate it
//   - Archive: bundle snapshots older than a week into a gzip tarball
//   - Promote: move bundles older than a month into long-term storage
//   - Expire: delete long-term bundles older than a year
//
// Usage:
//
//	# Run the daemon in the foreground
//	logkeeper run
//
//	# Run with a custom configuration file
//	logkeeper run --config /etc/logkeeper/logkeeper.yaml
//
//	# Run a single cycle now and exit
//	logkeeper cycle
//
//	# Show what the next cycle would do
//	logkeeper status
package main

func main() {
	Execute()
}
