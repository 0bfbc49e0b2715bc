// Package logging builds the daemon's structured logger.
//
// The logging package configures Go's standard log/slog package from the
// logging section of the configuration file:
//   - JSON or text output
//   - Configurable log levels (debug, info, warn, error)
//   - Optional source locations
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// Components derive their own loggers with a component attribute, for
// example slog.Default().With("component", "retention.tier").
package logging
