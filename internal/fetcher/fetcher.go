// Package fetcher loads raw lead rows from CSV and XLSX exports, on local
// disk or over FTP.
package fetcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// Source is one input file: its declared export format and where it lives.
// Location is a local path or an ftp:// URL.
type Source struct {
	Type     model.SourceType
	Location string
	Sheet    string // XLSX only; empty means first sheet
}

// headerScanDepth bounds how deep Load looks for the header row. Exports
// often carry a title block above the real header.
const headerScanDepth = 10

// Load reads a source and returns its data rows keyed by header column.
// A file whose header cannot be located yields zero rows, not an error: the
// pipeline logs the structural problem and moves on to the next source.
func Load(ctx context.Context, src Source, required []string) ([]model.RawRow, error) {
	local := src.Location
	switch {
	case strings.HasPrefix(src.Location, "ftp://"):
		path, cleanup, err := fetchFTP(ctx, src.Location)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		local = path
	case strings.HasPrefix(src.Location, "http://"), strings.HasPrefix(src.Location, "https://"):
		path, cleanup, err := fetchHTTP(ctx, src.Location)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		local = path
	}

	var grid [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(local)); ext {
	case ".csv":
		grid, err = readCSVFile(ctx, local)
	case ".xlsx":
		grid, err = ReadXLSX(local, XLSXOptions{SheetName: src.Sheet})
	default:
		return nil, eris.Errorf("fetcher: unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	idx := FindHeader(grid, required)
	if idx < 0 {
		zap.L().Warn("fetcher: header row not found, skipping source",
			zap.String("location", src.Location),
			zap.Strings("required", required))
		return nil, nil
	}

	return ToRawRows(grid[idx], grid[idx+1:]), nil
}

// FindHeader returns the index of the first row whose cells contain every
// required column name, scanning at most headerScanDepth rows. Matching
// ignores case and internal spacing ("SeriesName" satisfies "Series Name");
// BI exports are inconsistent about both. Returns -1 when no row qualifies.
func FindHeader(grid [][]string, required []string) int {
	depth := len(grid)
	if depth > headerScanDepth {
		depth = headerScanDepth
	}
	for i := 0; i < depth; i++ {
		if hasColumns(grid[i], required) {
			return i
		}
	}
	return -1
}

func hasColumns(row []string, required []string) bool {
	if len(required) == 0 {
		return len(row) > 0
	}
	seen := make(map[string]bool, len(row))
	for _, cell := range row {
		seen[FoldColumn(cell)] = true
	}
	for _, col := range required {
		if !seen[FoldColumn(col)] {
			return false
		}
	}
	return true
}

// FoldColumn canonicalizes a column name for matching: lowercase, internal
// whitespace removed.
func FoldColumn(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// ToRawRows zips data rows against the header. Rows shorter than the header
// leave the missing columns absent; fully blank rows are dropped.
func ToRawRows(header []string, rows [][]string) []model.RawRow {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	out := make([]model.RawRow, 0, len(rows))
	for _, row := range rows {
		raw := make(model.RawRow, len(cols))
		blank := true
		for i, cell := range row {
			if i >= len(cols) || cols[i] == "" {
				continue
			}
			raw[cols[i]] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, raw)
	}
	return out
}
