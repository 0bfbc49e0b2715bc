package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	cause := errors.New("trigger_time: bad")
	err := NewConfigError("logkeeper.yaml", cause)

	expected := "config error in logkeeper.yaml: trigger_time: bad"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("run", underlyingErr)

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is should find the underlying error")
	}

	var cmdErr *CommandError
	if !errors.As(error(err), &cmdErr) || cmdErr.Command != "run" {
		t.Error("errors.As should find the CommandError")
	}
}
