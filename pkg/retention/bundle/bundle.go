// Package bundle writes and reads the compressed archive bundles kept in the
// medium and long-term tiers. A bundle is a tar stream compressed with gzip.
package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Writer produces one bundle from a set of files.
type Writer interface {
	// Write stores files in the bundle at dest. If dest already exists its
	// entries are carried over; an entry with the same base name as one of
	// files is replaced.
	Write(dest string, files []string) error
}

// TarGz writes gzip-compressed tar bundles.
type TarGz struct {
	// Level is the gzip compression level. Zero selects gzip.DefaultCompression.
	Level int
}

// NewTarGz returns a TarGz writer using the default compression level.
func NewTarGz() *TarGz {
	return &TarGz{Level: gzip.DefaultCompression}
}

// Write implements Writer. The bundle is assembled in a temporary file next
// to dest and renamed into place after it has been synced.
func (w *TarGz) Write(dest string, files []string) (err error) {
	if len(files) == 0 {
		return errors.New("bundle: no files to write")
	}

	level := w.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".bundle-*")
	if err != nil {
		return fmt.Errorf("bundle: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw, err := gzip.NewWriterLevel(tmp, level)
	if err != nil {
		return fmt.Errorf("bundle: gzip writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	replaced := make(map[string]bool, len(files))
	for _, f := range files {
		replaced[filepath.Base(f)] = true
	}

	if err := carryOver(tw, dest, replaced); err != nil {
		return err
	}

	for _, f := range files {
		if err := addFile(tw, f); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("bundle: close tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("bundle: close gzip stream: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("bundle: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("bundle: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("bundle: rename into place: %w", err)
	}

	return nil
}

// carryOver copies the entries of an existing bundle at path into tw,
// skipping names in replaced. A missing bundle is not an error.
func carryOver(tw *tar.Writer, path string, replaced map[string]bool) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bundle: open existing bundle: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("bundle: read existing bundle %s: %w", path, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("bundle: read existing bundle %s: %w", path, err)
		}
		if replaced[hdr.Name] {
			continue
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("bundle: copy entry %s: %w", hdr.Name, err)
		}
		if _, err := io.Copy(tw, tr); err != nil {
			return fmt.Errorf("bundle: copy entry %s: %w", hdr.Name, err)
		}
	}
}

func addFile(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("bundle: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("bundle: stat %s: %w", path, err)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("bundle: header for %s: %w", path, err)
	}
	hdr.Name = filepath.Base(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("bundle: write header %s: %w", path, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("bundle: write %s: %w", path, err)
	}
	return nil
}

// Entry is one file stored in a bundle.
type Entry struct {
	Name string
	Data []byte
}

// Read returns every entry of the bundle at path, in stored order.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", path, err)
	}
	defer zr.Close()

	var entries []Entry
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("bundle: %s: %w", path, err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("bundle: %s: %w", path, err)
		}
		entries = append(entries, Entry{Name: hdr.Name, Data: data})
	}
}
