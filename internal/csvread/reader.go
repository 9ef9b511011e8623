// Package csvread loads upstream extracts without ever failing: anything
// that cannot be read as a table comes back as nil.
package csvread

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/storage"
	"github.com/gyeh/strokeprofile/internal/table"
)

// ErrEmpty is returned by Parse for input with no header record.
var ErrEmpty = errors.New("no header record")

// Load reads the named extract from store. It returns nil when the object is
// missing, zero-length, has no header, or does not parse as CSV; the reason
// is logged and never returned.
func Load(ctx context.Context, store storage.Store, name string, log zerolog.Logger) *table.Table {
	data, err := store.ReadFile(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			log.Info().Str("input", name).Msg("input missing; treating as absent")
		} else {
			log.Warn().Err(err).Str("input", name).Msg("input unreadable; treating as absent")
		}
		return nil
	}
	if len(data) == 0 {
		log.Info().Str("input", name).Msg("input is empty; treating as absent")
		return nil
	}

	t, err := Parse(data)
	if err != nil {
		log.Warn().Err(err).Str("input", name).Msg("failed to parse input; treating as absent")
		return nil
	}
	log.Debug().
		Str("input", name).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns())).
		Msg("input loaded")
	return t
}

// Parse reads CSV bytes into a Table. Headers are normalized with
// normalize.NormalizeHeader; cells are kept as raw text. Blank lines are
// skipped, short rows are padded, and a row wider than the header is a
// parse error.
func Parse(data []byte) (*table.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 1 && header[0] == "" {
		// What pandas writes for a DataFrame with no columns.
		return nil, ErrEmpty
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = normalize.NormalizeHeader(h)
	}

	var rows [][]string
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", line, len(rec), len(columns))
		}
		rows = append(rows, rec)
	}

	return table.New(columns, rows), nil
}
