package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DirCheck reports whether path is an existing directory the daemon can
// write to. Writability is checked by creating and removing a temporary
// file.
func DirCheck(path string) CheckFunc {
	return func(context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}
		tmp, err := os.CreateTemp(path, ".logkeeper-health-*")
		if err != nil {
			return fmt.Errorf("%s is not writable: %w", path, err)
		}
		name := tmp.Name()
		tmp.Close()
		if err := os.Remove(name); err != nil {
			return fmt.Errorf("%s: remove %s: %w", path, name, err)
		}
		return nil
	}
}

// ActiveLogCheck reports whether the active log can be rotated. A missing
// active log is healthy; rotation skips it.
func ActiveLogCheck(path string) CheckFunc {
	return func(context.Context) error {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", path)
		}
		return nil
	}
}

// Pinger is implemented by stores that can verify their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger to a CheckFunc.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}
