package bundle

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", path, err)
	}
	return path
}

func TestTarGz_Write(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	a := writeFile(t, src, "log_01_01_2024.txt", "alpha\n")
	b := writeFile(t, src, "log_01_02_2024.txt", "beta\n")

	dest := filepath.Join(dst, "medium_logs_01_20_2024.tar.gz")
	if err := NewTarGz().Write(dest, []string{a, b}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	entries, err := Read(dest)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "log_01_01_2024.txt" || string(entries[0].Data) != "alpha\n" {
		t.Errorf("entry 0 = %s %q", entries[0].Name, entries[0].Data)
	}
	if entries[1].Name != "log_01_02_2024.txt" || string(entries[1].Data) != "beta\n" {
		t.Errorf("entry 1 = %s %q", entries[1].Name, entries[1].Data)
	}

	// No temp files left behind.
	names, _ := os.ReadDir(dst)
	if len(names) != 1 {
		t.Errorf("expected only the bundle in %s, found %d entries", dst, len(names))
	}
}

func TestTarGz_WriteCarriesOverExistingEntries(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	dest := filepath.Join(dst, "medium_logs_01_20_2024.tar.gz")

	first := writeFile(t, src, "log_01_01_2024.txt", "first run\n")
	if err := NewTarGz().Write(dest, []string{first}); err != nil {
		t.Fatalf("first Write() failed: %v", err)
	}

	second := writeFile(t, src, "log_01_02_2024.txt", "second run\n")
	replacement := writeFile(t, src, "log_01_01_2024.txt", "rewritten\n")
	if err := NewTarGz().Write(dest, []string{second, replacement}); err != nil {
		t.Fatalf("second Write() failed: %v", err)
	}

	entries, err := Read(dest)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	got := make(map[string]string)
	for _, e := range entries {
		got[e.Name] = string(e.Data)
	}
	if len(got) != 2 || len(entries) != 2 {
		t.Fatalf("expected 2 distinct entries, got %v", got)
	}
	if got["log_01_01_2024.txt"] != "rewritten\n" {
		t.Errorf("replaced entry = %q, want last write", got["log_01_01_2024.txt"])
	}
	if got["log_01_02_2024.txt"] != "second run\n" {
		t.Errorf("new entry = %q", got["log_01_02_2024.txt"])
	}
}

func TestTarGz_WriteNoFiles(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "medium_logs_01_20_2024.tar.gz")
	if err := NewTarGz().Write(dest, nil); err == nil {
		t.Fatal("Write() with no files succeeded, want error")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("bundle created for empty input: %v", err)
	}
}

func TestTarGz_WriteMissingSourceLeavesNoTemp(t *testing.T) {
	dst := t.TempDir()
	dest := filepath.Join(dst, "medium_logs_01_20_2024.tar.gz")

	err := NewTarGz().Write(dest, []string{filepath.Join(dst, "missing.txt")})
	if err == nil {
		t.Fatal("Write() succeeded with a missing source")
	}

	names, _ := os.ReadDir(dst)
	if len(names) != 0 {
		t.Errorf("expected empty directory after failed write, found %d entries", len(names))
	}
}
