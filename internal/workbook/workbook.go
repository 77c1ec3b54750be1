// Package workbook reads and writes the XLSX files the tool consumes and produces.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerlift/statex/internal/textnorm"
)

// Table is one sheet: a trimmed header row plus data rows padded to header width.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Sheet is a sheet to write.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// ReadSheet reads one sheet. An empty name selects the first sheet.
func ReadSheet(path, name string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		name = sheets[0]
	}
	return readTable(f, name)
}

// ReadSheets reads the named sheets. Sheets absent from the workbook are
// left out of the result.
func ReadSheets(path string, names ...string) (map[string]*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, s := range f.GetSheetList() {
		present[s] = true
	}

	out := make(map[string]*Table, len(names))
	for _, name := range names {
		if !present[name] {
			continue
		}
		t, err := readTable(f, name)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

func readTable(f *excelize.File, name string) (*Table, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	t := &Table{Name: name}
	if len(rows) == 0 {
		t.buildIndex()
		return t, nil
	}
	for _, h := range rows[0] {
		t.Header = append(t.Header, strings.TrimSpace(h))
	}
	for _, r := range rows[1:] {
		row := make([]string, len(t.Header))
		copy(row, r)
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		t.Rows = append(t.Rows, row)
	}
	t.buildIndex()
	return t, nil
}

// NewTable builds a Table from a header and rows, mainly for tests.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: header, Rows: rows}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
}

// Col returns the index of a column or -1.
func (t *Table) Col(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Get returns the cell of row in the named column, blank when the column is missing.
func (t *Table) Get(row []string, name string) string {
	i := t.Col(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Write creates path (and its directory) holding the given sheets in order.
func Write(path string, sheets ...Sheet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", s.Name, err)
		}

		header := make([]any, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		if err := setRow(f, s.Name, 1, header); err != nil {
			return err
		}
		for j, r := range s.Rows {
			if err := setRow(f, s.Name, j+2, r); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, n, err)
	}
	return nil
}

// StringRows widens string rows for Write.
func StringRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = v
		}
		out[i] = row
	}
	return out
}

// cellLayouts cover excelize's rendering of the built-in date formats.
var cellLayouts = []string{
	"01-02-06",
	"1/2/06 15:04",
	"1-2-06",
	"2-Jan-06",
	"2006-01-02T15:04:05Z",
}

// ParseDate reads a date cell. It accepts Excel serial numbers, excelize's
// default renderings and the usual statement layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 1 && serial < 100000 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t, true
		}
	}
	if t, ok := textnorm.AnyDate(s); ok {
		return t, true
	}
	if t, err := textnorm.ParseDate(s, cellLayouts...); err == nil {
		return t, true
	}
	return time.Time{}, false
}
