// Package health checks the resources the retention daemon depends on.
//
// The daemon has no network interface, so checks are not exposed as HTTP
// endpoints. The status command runs them and prints the report:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("short_term_dir", health.DirCheck(layout.ShortTermDir))
//	checker.RegisterCheck("active_log", health.ActiveLogCheck(layout.ActiveLog))
//	report := checker.Check(ctx)
//
// Checks run concurrently, each bounded by the checker's timeout. The report
// is "ok" when every check passes and "degraded" otherwise.
package health
