package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader handles loading of the product catalog
type Loader struct {
	catalogPath string
}

// NewLoader creates a new catalog loader
func NewLoader(catalogPath string) *Loader {
	return &Loader{
		catalogPath: catalogPath,
	}
}

// exportDocument is the commerce export shape: {"source":{"items":[...]}}
type exportDocument struct {
	Source struct {
		Items []Product `json:"items"`
	} `json:"source"`
}

// parquetProduct is the columnar row layout of a catalog in Parquet format
type parquetProduct struct {
	SKU      string `parquet:"sku"`
	Name     string `parquet:"name,optional"`
	Category string `parquet:"categories,optional"`
}

// Load loads products from a catalog file (JSON, JSONL or Parquet).
// Identifiers must be unique within the catalog.
func (l *Loader) Load() ([]Product, error) {
	var products []Product
	var err error

	ext := strings.ToLower(filepath.Ext(l.catalogPath))
	switch ext {
	case ".json":
		products, err = l.loadJSON()
	case ".jsonl":
		products, err = l.loadJSONL()
	case ".parquet":
		products, err = l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .json, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := checkUnique(products); err != nil {
		return nil, err
	}

	slog.Debug("Catalog loaded", "path", l.catalogPath, "products", len(products))
	return products, nil
}

// loadJSON loads either the commerce export document or a bare array of items
func (l *Loader) loadJSON() ([]Product, error) {
	data, err := os.ReadFile(l.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Product
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
		return items, nil
	}

	var doc exportDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if doc.Source.Items == nil {
		return nil, fmt.Errorf("catalog %s has no source.items list", l.catalogPath)
	}
	return doc.Source.Items, nil
}

// loadJSONL loads one product per line
func (l *Loader) loadJSONL() ([]Product, error) {
	file, err := os.Open(l.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var products []Product
	scanner := bufio.NewScanner(file)

	// Product lines can carry large attribute blobs
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var product Product
		if err := json.Unmarshal(line, &product); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		products = append(products, product)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	return products, nil
}

// loadParquet loads products from a Parquet file
func (l *Loader) loadParquet() ([]Product, error) {
	file, err := os.Open(l.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[parquetProduct](pf)
	defer reader.Close()

	var products []Product
	rows := make([]parquetProduct, 128)

	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			products = append(products, Product{
				SKU:      row.SKU,
				Name:     row.Name,
				Category: row.Category,
			})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return products, nil
}

func checkUnique(products []Product) error {
	seen := make(map[string]int, len(products))
	for i, p := range products {
		if p.SKU == "" {
			return fmt.Errorf("product at position %d has no sku", i+1)
		}
		if first, ok := seen[p.SKU]; ok {
			return fmt.Errorf("duplicate sku %q at positions %d and %d", p.SKU, first+1, i+1)
		}
		seen[p.SKU] = i
	}
	return nil
}
