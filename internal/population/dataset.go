// Package population loads a country/year population table from CSV and
// renders one year of it as a world choropleth.
package population

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CountryColumn is the header of the column holding country names.
const CountryColumn = "Country"

// Years are the columns offered in the year selector.
var Years = []string{"1970", "1980", "1990", "2000", "2010", "2015", "2020", "2022"}

var (
	// ErrEmptyDataset is returned when the upload has no header row.
	ErrEmptyDataset = errors.New("uploaded file is empty")

	// ErrMissingCountry is returned when the header has no Country column.
	ErrMissingCountry = errors.New("CSV must contain a 'Country' column")

	// ErrMissingYear is returned when the selected year has no column.
	ErrMissingYear = errors.New("CSV has no column for the selected year")

	// ErrUnknownYear is returned for a year outside Years.
	ErrUnknownYear = errors.New("year is not one of the selectable years")

	// ErrNonFinite is wrapped by a CellError whose value parsed as NaN or an
	// infinity.
	ErrNonFinite = errors.New("population must be a finite number")
)

// CellError reports a population cell that is not a number.
type CellError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: invalid population %q", e.Row, e.Column, e.Value)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// Entry is one country's population for the projected year.
type Entry struct {
	Country    string
	Population float64
}

// Dataset is the parsed table. Column lookup is by exact header text after
// trimming surrounding whitespace.
type Dataset struct {
	header  []string
	columns map[string]int
	rows    [][]string
}

// Parse reads a CSV table with a header row.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	ds := &Dataset{
		header:  make([]string, len(header)),
		columns: make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		ds.header[i] = name
		if _, dup := ds.columns[name]; !dup {
			ds.columns[name] = i
		}
	}

	if _, ok := ds.columns[CountryColumn]; !ok {
		return nil, ErrMissingCountry
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", len(ds.rows)+1, err)
		}
		ds.rows = append(ds.rows, record)
	}

	return ds, nil
}

// columnNames returns the header names in file order.
func (d *Dataset) columnNames() []string {
	return slices.Clone(d.header)
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

func (d *Dataset) hasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// AvailableYears returns the selectable years present in the header.
func (d *Dataset) AvailableYears() []string {
	var years []string
	for _, y := range Years {
		if d.hasColumn(y) {
			years = append(years, y)
		}
	}
	return years
}

// Project selects the Country and year columns, the latter renamed to
// Population. Rows with a blank country or blank population are skipped.
func (d *Dataset) Project(year string) ([]Entry, error) {
	if !slices.Contains(Years, year) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownYear, year)
	}
	yearCol, ok := d.columns[year]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingYear, year)
	}
	countryCol := d.columns[CountryColumn]

	entries := make([]Entry, 0, len(d.rows))
	for i, row := range d.rows {
		if countryCol >= len(row) || yearCol >= len(row) {
			continue
		}
		country := strings.TrimSpace(row[countryCol])
		raw := strings.TrimSpace(row[yearCol])
		if country == "" || raw == "" {
			continue
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, &CellError{Row: i + 1, Column: year, Value: raw, Err: err}
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &CellError{Row: i + 1, Column: year, Value: raw, Err: ErrNonFinite}
		}
		entries = append(entries, Entry{Country: country, Population: value})
	}

	return entries, nil
}
