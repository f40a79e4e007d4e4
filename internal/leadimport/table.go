package leadimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat means the file extension is not importable.
	ErrUnsupportedFormat = errors.New("unsupported file format: use .xlsx or .csv")

	// ErrNoRows means the file parsed but held no data rows.
	ErrNoRows = errors.New("no rows in file")
)

// ReadTable parses an uploaded spreadsheet into rows. The format is
// chosen by the filename extension. A file without at least a header
// and one data row fails with ErrNoRows.
func ReadTable(r io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return toRows(records)
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading xlsx sheet %q: %w", sheets[0], err)
	}
	return toRows(records)
}

// toRows converts a header record plus data records into Rows.
func toRows(records [][]string) ([]Row, error) {
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, NewRow(headers, rec))
	}
	return rows, nil
}
