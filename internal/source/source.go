// Package source fetches the raw rows of the inquiry spreadsheet from Google
// Sheets, a local CSV export or a CSV export stored in S3.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ignite/inquiry-dashboard/internal/config"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

// ErrSourceNotConfigured is returned by New for an unknown or incomplete source.
var ErrSourceNotConfigured = errors.New("row source not configured")

// RowSource returns every row of the sheet, in sheet order.
type RowSource interface {
	FetchRows(ctx context.Context) ([]inquiry.RawRow, error)
	Name() string
}

// New builds the RowSource selected by cfg.Type.
func New(ctx context.Context, cfg config.SourceConfig) (RowSource, error) {
	switch cfg.Type {
	case config.SourceSheets:
		if cfg.SpreadsheetID == "" {
			return nil, fmt.Errorf("%w: spreadsheet id missing", ErrSourceNotConfigured)
		}
		return NewSheetsSource(ctx, cfg)
	case config.SourceCSV:
		if cfg.CSVPath == "" {
			return nil, fmt.Errorf("%w: csv path missing", ErrSourceNotConfigured)
		}
		return NewCSVSource(cfg.CSVPath), nil
	case config.SourceS3:
		if cfg.S3Bucket == "" || cfg.S3Key == "" {
			return nil, fmt.Errorf("%w: s3 bucket or key missing", ErrSourceNotConfigured)
		}
		return NewS3Source(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrSourceNotConfigured, cfg.Type)
	}
}

// readCSV decodes a CSV export of the sheet. Exports from Excel carry a BOM
// and rows of uneven length.
func readCSV(r io.Reader) ([]inquiry.RawRow, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []inquiry.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", len(rows)+1, err)
		}
		row := make(inquiry.RawRow, len(record))
		for i, v := range record {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return dropHeader(rows), nil
}

// dropHeader removes a leading title row. The parser would reject it anyway,
// but it should not show up as a dropped record in the parse report. A first
// row with a blank or odd inquiry date may still be a contract, so only a
// recognizable title row is removed.
func dropHeader(rows []inquiry.RawRow) []inquiry.RawRow {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return rows
	}
	first, _ := rows[0][0].(string)
	if !inquiry.IsHeaderLabel(strings.TrimSpace(first)) {
		return rows
	}
	return rows[1:]
}

func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err == nil && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
