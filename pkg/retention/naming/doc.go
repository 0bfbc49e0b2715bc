// Package naming encodes and decodes the calendar date embedded in the
// filenames of each storage tier.
//
// # Conventions
//
// Short-term snapshots are named log_MM_DD_YYYY.txt. Archive bundles use one
// convention for both the medium and the long-term tier,
// medium_logs_MM_DD_YYYY.tar.gz, because promotion moves a bundle between
// tiers without renaming it.
//
// # Parse failures
//
// Decode never panics. Any name that does not match the tier's pattern
// exactly (extra characters, wrong field order, an impossible calendar date)
// yields a *ParseFailure, which matches ErrParseFailure under errors.Is.
// Callers skip such entries and continue with the rest of the directory.
package naming
