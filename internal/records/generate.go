package records

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
)

// DefaultMIMEType is used when the extension has no registered type
const DefaultMIMEType = "image/jpeg"

// ImageSource lists and reads image files. images.Store implements it.
type ImageSource interface {
	List() ([]string, error)
	Read(fileName string) ([]byte, error)
	Candidate(fileName string) string
}

// FailedAsset is an image that matched a product but could not be read
type FailedAsset struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Generation is the outcome of turning matched images into import records
type Generation struct {
	Records   []ImportRecord `json:"-"`
	Matched   []string       `json:"matched"`
	Unmatched []string       `json:"unmatched"`
	Failed    []FailedAsset  `json:"failed,omitempty"`
}

// Generate builds one import record per image whose name exactly matches a
// catalog identifier, in listing order. Unmatched and unreadable images are
// reported and left out.
func Generate(index *catalog.Index, src ImageSource) (*Generation, error) {
	files, err := src.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	gen := &Generation{}
	for _, f := range files {
		id := src.Candidate(f)
		if _, ok := index.Lookup(id); !ok {
			gen.Unmatched = append(gen.Unmatched, f)
			continue
		}

		data, err := src.Read(f)
		if err != nil {
			slog.Error("Failed to read image", "file", f, "error", err)
			gen.Failed = append(gen.Failed, FailedAsset{File: f, Error: err.Error()})
			continue
		}

		gen.Records = append(gen.Records, NewImportRecord(id, f, MIMEType(f), base64.StdEncoding.EncodeToString(data)))
		gen.Matched = append(gen.Matched, f)
		slog.Debug("Generated import record", "sku", id, "bytes", len(data))
	}

	return gen, nil
}

// MIMEType returns the media type for an image file name
func MIMEType(fileName string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if t == "" {
		return DefaultMIMEType
	}
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
