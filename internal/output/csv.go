// Package output renders profile tables and writes them to a store.
package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/storage"
)

// EncodeCSV renders a header and rows as CSV with LF line endings.
func EncodeCSV(columns []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i, len(row), len(columns))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTable encodes the table fully in memory, then replaces the named
// object in one write. It returns the SHA-256 of what was written.
func WriteTable(ctx context.Context, store storage.Store, name string, columns []string, rows [][]string) (string, error) {
	data, err := EncodeCSV(columns, rows)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	if err := store.WriteFile(ctx, name, data); err != nil {
		return "", err
	}
	return normalize.ContentHash(data), nil
}

// WriteDegenerate writes a header-only table, so consumers always find the
// canonical schema even when no data could be assembled.
func WriteDegenerate(ctx context.Context, store storage.Store, name string, columns []string) (string, error) {
	return WriteTable(ctx, store, name, columns, nil)
}
