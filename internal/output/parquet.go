package output

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/gyeh/strokeprofile/internal/storage"
)

// ParquetName maps a CSV output name to its Parquet mirror name.
func ParquetName(csvName string) string {
	return strings.TrimSuffix(csvName, ".csv") + ".parquet"
}

// EncodeParquet writes rows to an in-memory Parquet file. The schema comes
// from T's parquet struct tags, so a zero-row file still carries the full
// canonical column set.
func EncodeParquet[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.CreatedBy("profilebuild", "1.0", ""),
	)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return nil, fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteParquet encodes rows and stores them under name.
func WriteParquet[T any](ctx context.Context, store storage.Store, name string, rows []T) error {
	data, err := EncodeParquet(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return store.WriteFile(ctx, name, data)
}
