package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultPrefix names the output documents: <prefix>_<n>.json
const DefaultPrefix = "accs_product_images"

// Writer replaces the batched output documents in a directory
type Writer struct {
	Dir    string
	Prefix string

	remove func(name string) error
}

// Unit is one written output document
type Unit struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// ReplaceResult lists what a replace removed and wrote
type ReplaceResult struct {
	Deleted []string `json:"deleted"`
	Written []Unit   `json:"written"`
}

// NewWriter creates a writer for dir. An empty prefix uses DefaultPrefix.
func NewWriter(dir, prefix string) *Writer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Writer{
		Dir:    dir,
		Prefix: prefix,
		remove: os.Remove,
	}
}

// Pattern matches the names of output documents owned by this writer
func (w *Writer) Pattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(w.Prefix) + `_\d+\.json$`)
}

// UnitName returns the name of the n-th output document, counting from 1
func (w *Writer) UnitName(n int) string {
	return fmt.Sprintf("%s_%d.json", w.Prefix, n)
}

// Existing returns the output documents currently in the directory
func (w *Writer) Existing() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	pattern := w.Pattern()
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && pattern.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Replace deletes every existing output document and then writes one
// document per batch. Writing does not start unless every stale document was
// removed, so old and new documents never mix.
func (w *Writer) Replace(batches [][]ImportRecord) (*ReplaceResult, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ReplaceResult{}

	stale, err := w.Existing()
	if err != nil {
		return result, err
	}
	for _, name := range stale {
		if err := w.removeFile(filepath.Join(w.Dir, name)); err != nil {
			return result, fmt.Errorf("failed to remove old output %s: %w", name, err)
		}
		slog.Info("Deleted old output", "file", name)
		result.Deleted = append(result.Deleted, name)
	}

	for i, batch := range batches {
		name := w.UnitName(i + 1)
		if err := writeJSONAtomic(filepath.Join(w.Dir, name), batch); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", name, err)
		}
		slog.Debug("Wrote output", "file", name, "records", len(batch))
		result.Written = append(result.Written, Unit{Name: name, Records: len(batch)})
	}

	return result, nil
}

func (w *Writer) removeFile(path string) error {
	if w.remove == nil {
		return os.Remove(path)
	}
	return w.remove(path)
}

// writeJSONAtomic writes v as indented JSON to a temp file in the same
// directory and renames it into place
func writeJSONAtomic(dest string, v any) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	encoder := json.NewEncoder(bw)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = os.Chmod(tmpPath, 0644)

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
