package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrEmptySource = errors.New("source has no data rows")

// Source yields the data rows of an import, header excluded.
type Source interface {
	Name() string
	Rows(ctx context.Context) ([]Row, error)
}

// dataRows drops the header line and numbers the rest from 2.
func dataRows(lines [][]string) ([]Row, error) {
	if len(lines) < 2 {
		return nil, ErrEmptySource
	}
	rows := make([]Row, 0, len(lines)-1)
	for i, cells := range lines[1:] {
		rows = append(rows, Row{Number: i + 2, Cells: cells})
	}
	return rows, nil
}

type CSVSource struct {
	Reader io.Reader
}

func (CSVSource) Name() string { return "csv" }

func (s CSVSource) Rows(ctx context.Context) ([]Row, error) {
	data, err := io.ReadAll(s.Reader)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	lines, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return dataRows(lines)
}

// detectDelimiter picks ';' when the header uses it more than ','.
func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

// XLSXSource reads the first worksheet of an uploaded workbook.
type XLSXSource struct {
	ReaderAt io.ReaderAt
	Size     int64
}

func (XLSXSource) Name() string { return "xlsx" }

func (s XLSXSource) Rows(ctx context.Context) ([]Row, error) {
	f, err := xlsx.OpenReaderAt(s.ReaderAt, s.Size)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, ErrEmptySource
	}

	sheet := f.Sheets[0]
	lines := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			lines = append(lines, nil)
			continue
		}
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			if c != nil {
				cells[i] = c.String()
			}
		}
		lines = append(lines, cells)
	}
	return dataRows(lines)
}

// SheetsSource reads a range of a Google spreadsheet.
type SheetsSource struct {
	Service       *sheets.Service
	SpreadsheetID string
	Range         string
}

func NewSheetsSource(ctx context.Context, credentialsPath, spreadsheetID, readRange string) (*SheetsSource, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("google sheets client: %w", err)
	}
	if readRange == "" {
		readRange = "A:H"
	}
	return &SheetsSource{Service: srv, SpreadsheetID: spreadsheetID, Range: readRange}, nil
}

func (*SheetsSource) Name() string { return "google_sheets" }

func (s *SheetsSource) Rows(ctx context.Context) ([]Row, error) {
	resp, err := s.Service.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google sheets %s!%s: %w", s.SpreadsheetID, s.Range, err)
	}
	return dataRows(valuesToLines(resp.Values))
}

func valuesToLines(values [][]any) [][]string {
	lines := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
		lines[i] = cells
	}
	return lines
}
