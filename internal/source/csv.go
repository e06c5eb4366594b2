package source

import (
	"context"
	"fmt"
	"os"

	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

// CSVSource reads a CSV export of the sheet from disk on every fetch.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string { return "csv:" + s.path }

func (s *CSVSource) FetchRows(ctx context.Context) ([]inquiry.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	return readCSV(f)
}
