// Package tier applies the retention policy to the managed directories.
//
// # Operations
//
// A Manager exposes the four lifecycle transitions of one daily cycle:
//
//   - Rotate copies the active log into logs/log_<today>.txt and truncates it
//   - Archive bundles eligible snapshots into medium_term_logs/
//   - Promote moves aged bundles into long_term_logs/ under the same name
//   - Expire deletes long-term bundles past the long-term horizon
//
// Every operation lists its directory afresh; nothing is cached between
// calls, so a pass interrupted by a crash or a filesystem fault is
// reconciled by the next one.
//
// # Skipped entries
//
// Subdirectories and names that do not decode under the tier's naming
// convention are left untouched. A fault on one entry does not stop the
// pass; all faults are returned together once the listing is exhausted.
//
// # Rotation after a crash
//
// If today's snapshot already exists when Rotate runs (for example after a
// crash between copying and truncating the active log), the new bytes are
// appended to it rather than overwriting it. Lines may be duplicated in that
// case but none are lost.
//
// Rotation does not lock the active log. Lines an external writer appends
// after the final size check and before the truncate are lost; the window is
// one stat and one ftruncate on the same open file.
package tier
