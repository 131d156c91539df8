// Package manifest reads and writes the CSV manifest that records which
// files a directory tree has already been scanned into, together with
// their content digests. The first line is a signature so a foreign CSV
// is never misread or clobbered.
package manifest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileName is the manifest file kept at the scan root.
	FileName = "dupescan-manifest.csv"
	// Signature is the first line of every manifest this tool owns.
	Signature = "#dupescan-manifest-v1"
)

// ErrForeign marks a file at the manifest path that this tool did not
// write. Foreign files are left untouched.
var ErrForeign = errors.New("manifest signature mismatch")

// Entry is one manifest row.
type Entry struct {
	Path string
	SHA1 string
}

// Path returns the manifest location for a scan root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Read loads the manifest for root. A missing manifest yields no entries
// and no error; a foreign file yields ErrForeign. Entries whose files no
// longer exist are skipped.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading manifest signature: %w", err)
	}
	if strings.TrimSpace(first) != Signature {
		return nil, ErrForeign
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	var entries []Entry
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest row: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		entry := Entry{Path: rec[0]}
		if len(rec) > 1 {
			entry.SHA1 = rec[1]
		}
		if _, err := os.Stat(entry.Path); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Writer appends rows to a manifest, flushing after every row so a
// cancelled scan keeps what it finished.
type Writer struct {
	f *os.File
	w *csv.Writer
}

// OpenWriter opens the manifest for root. An existing manifest with the
// right signature is appended to; a missing one, or any file when
// replace is set, is written fresh with signature and header. A foreign
// file without replace yields ErrForeign.
func OpenWriter(root string, replace bool) (*Writer, error) {
	path := Path(root)

	fresh := replace
	if !fresh {
		existing, err := os.Open(path)
		switch {
		case os.IsNotExist(err):
			fresh = true
		case err != nil:
			return nil, fmt.Errorf("opening manifest: %w", err)
		default:
			first, _ := bufio.NewReader(existing).ReadString('\n')
			_ = existing.Close()
			if strings.TrimSpace(first) != Signature {
				return nil, ErrForeign
			}
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if fresh {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening manifest for write: %w", err)
	}

	w := &Writer{f: f, w: csv.NewWriter(f)}
	if fresh {
		if _, err := fmt.Fprintln(f, Signature); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing manifest signature: %w", err)
		}
		if err := w.writeRow("path", "sha1"); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return w, nil
}

// Add appends one entry.
func (w *Writer) Add(path, sha1 string) error {
	return w.writeRow(path, sha1)
}

func (w *Writer) writeRow(fields ...string) error {
	if err := w.w.Write(fields); err != nil {
		return fmt.Errorf("writing manifest row: %w", err)
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flushing manifest: %w", err)
	}
	return nil
}

// Close flushes and closes the manifest file.
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		_ = w.f.Close()
		return fmt.Errorf("flushing manifest: %w", err)
	}
	return w.f.Close()
}
