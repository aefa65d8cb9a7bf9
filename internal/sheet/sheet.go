// Package sheet reads uploaded tabular files into rows of cells and writes
// named sheets back out as xlsx workbooks.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadable wraps every failure to decode uploaded bytes.
var ErrUnreadable = errors.New("unreadable spreadsheet")

// Row holds the cells of one sheet row. Cells are string, float64, bool or nil.
type Row []any

type NamedSheet struct {
	Name string
	Rows []Row
}

// Cell returns the cell at col, or nil when the row is shorter.
func (r Row) Cell(col int) any {
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Text returns the trimmed textual form of the cell at col.
func (r Row) Text(col int) string {
	return strings.TrimSpace(CellText(r.Cell(col)))
}

// With returns a copy of r with col set to v, padding with nil as needed.
func (r Row) With(col int, v any) Row {
	size := len(r)
	if col >= size {
		size = col + 1
	}
	out := make(Row, size)
	copy(out, r)
	out[col] = v
	return out
}

// Set writes v into col in place and returns the row, grown if it was too short.
func (r Row) Set(col int, v any) Row {
	if col < len(r) {
		r[col] = v
		return r
	}
	return r.With(col, v)
}

// CellText renders a cell the way it reads in a spreadsheet.
func CellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Parse decodes the first sheet of an uploaded file. The format is chosen by
// file extension: .csv, .html/.htm, anything else is treated as a workbook.
func Parse(name string, content []byte) ([]Row, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return parseCSV(content)
	case ".html", ".htm":
		return parseHTML(content)
	default:
		return parseXLSX(content)
	}
}

func parseXLSX(content []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	name := sheets[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	out := make([]Row, 0, len(raw))
	for r, cells := range raw {
		row := make(Row, len(cells))
		for c, value := range cells {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				row[c] = value
				continue
			}
			typ, _ := f.GetCellType(name, cell)
			row[c] = typedValue(typ, value)
		}
		out = append(out, row)
	}
	return out, nil
}

func typedValue(typ excelize.CellType, value string) any {
	switch typ {
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return value
	default:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	}
}

func parseCSV(content []byte) ([]Row, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	out := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(record))
		for i, value := range record {
			if value != "" {
				row[i] = value
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func parseHTML(content []byte) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	out := []Row{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := Row{}
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if text == "" {
				row = append(row, nil)
				return
			}
			row = append(row, text)
		})
		out = append(out, row)
	})
	return out, nil
}

// Serialize writes sheets into one xlsx workbook, keeping order and names.
func Serialize(sheets []NamedSheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("serialize: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return nil, fmt.Errorf("serialize sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("serialize sheet %q: %w", s.Name, err)
		}

		for r, row := range s.Rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(s.Name, cell, value); err != nil {
					return nil, err
				}
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromRecords lays keyed records out under header, in header order.
// Keys missing from a record become empty cells.
func FromRecords(header []string, records []map[string]any) []Row {
	out := make([]Row, 0, len(records)+1)
	head := make(Row, len(header))
	for i, h := range header {
		head[i] = h
	}
	out = append(out, head)

	for _, record := range records {
		row := make(Row, len(header))
		for i, h := range header {
			row[i] = record[h]
		}
		out = append(out, row)
	}
	return out
}
