package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/traxovo/fleetrec/internal/common"
)

// readTable reads a spreadsheet or CSV file into rows of string cells.
// The format is chosen by extension; anything that is not .xlsx/.xlsm is
// treated as delimited text.
func readTable(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrSourceMissing, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	default:
		return readDelimited(path)
	}
}

// readWorkbook reads the first sheet of an Excel workbook.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	return rows, nil
}

// readDelimited reads a CSV-style export. The delimiter is detected from the
// first line: a comma anywhere means comma-separated, otherwise semicolons
// are assumed (the telematics vendor's locale-dependent export format).
func readDelimited(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	firstLine, _, _ := strings.Cut(string(data), "\n")
	delimiter := ';'
	if strings.Contains(firstLine, ",") {
		delimiter = ','
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
