package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~whereswaldon/voicestats/chart"
)

// dateHeading names the timestamp column of a dataset file.
const dateHeading = "date"

var (
	// ErrMissingColumn is returned when a dataset header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidValue is returned for a count that is negative or not finite.
	ErrInvalidValue = errors.New("invalid value")
)

// columns maps dataset fields to their position in a CSV record.
type columns struct {
	date   int
	series [chart.NumSeries]int
}

func parseHeadings(headings []string) (columns, error) {
	cols := columns{date: -1}
	for i := range cols.series {
		cols.series[i] = -1
	}
	for i, heading := range headings {
		heading = strings.TrimSpace(heading)
		if strings.EqualFold(heading, dateHeading) {
			cols.date = i
			continue
		}
		s, err := chart.ParseSeries(heading)
		if err != nil {
			// Unknown columns are ignored.
			continue
		}
		cols.series[s] = i
	}
	var errs []error
	if cols.date < 0 {
		errs = append(errs, fmt.Errorf("%w %q", ErrMissingColumn, dateHeading))
	}
	for s, idx := range cols.series {
		if idx < 0 {
			errs = append(errs, fmt.Errorf("%w %q", ErrMissingColumn, chart.Series(s)))
		}
	}
	return cols, errors.Join(errs...)
}

func (c columns) parse(rec []string) (chart.Sample, error) {
	var sample chart.Sample
	if len(rec) <= c.date {
		return sample, fmt.Errorf("record has %d fields, no date", len(rec))
	}
	ts, err := parseDate(rec[c.date])
	if err != nil {
		return sample, err
	}
	sample.Timestamp = ts
	for s, idx := range c.series {
		if idx >= len(rec) {
			return sample, fmt.Errorf("record has %d fields, no %s", len(rec), chart.Series(s))
		}
		cell := strings.TrimSpace(rec[idx])
		if cell == "" {
			// Empty cells count as zero.
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return sample, fmt.Errorf("failed parsing %s=%q: %w", chart.Series(s), cell, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return sample, fmt.Errorf("%w %s=%q", ErrInvalidValue, chart.Series(s), cell)
		}
		sample.Values[s] = v
	}
	return sample, nil
}

func parseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	ts, err := time.Parse(time.RFC3339, cell)
	if err == nil {
		return ts, nil
	}
	if ts, dateErr := time.Parse(time.DateOnly, cell); dateErr == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("failed parsing date %q: %w", cell, err)
}

func newCSVReader(r io.Reader) *csv.Reader {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.ReuseRecord = true
	return csvReader
}

// ReadDataset parses a complete dataset file. Rows that fail to parse are
// collected into the returned error, which is non-nil alongside a usable
// dataset containing every row that did parse.
func ReadDataset(r io.Reader) (chart.Dataset, error) {
	csvReader := newCSVReader(r)
	headings, err := csvReader.Read()
	if err != nil {
		return chart.Dataset{}, fmt.Errorf("failed reading headings: %w", err)
	}
	cols, err := parseHeadings(headings)
	if err != nil {
		return chart.Dataset{}, err
	}
	var (
		d    chart.Dataset
		errs []error
	)
	for {
		rec, err := csvReader.Read()
		var parseErr *csv.ParseError
		if errors.Is(err, io.EOF) {
			break
		} else if errors.As(err, &parseErr) {
			errs = append(errs, err)
			continue
		} else if err != nil {
			return d, errors.Join(append(errs, err)...)
		}
		sample, err := cols.parse(rec)
		if err != nil {
			line, _ := csvReader.FieldPos(0)
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		d.Insert(sample)
	}
	return d, errors.Join(errs...)
}

// WriteDataset writes d in the format read by ReadDataset.
func WriteDataset(w io.Writer, d chart.Dataset) error {
	csvWriter := csv.NewWriter(w)
	headings := []string{dateHeading}
	for s := chart.Series(0); s < chart.NumSeries; s++ {
		headings = append(headings, s.String())
	}
	if err := csvWriter.Write(headings); err != nil {
		return err
	}
	record := make([]string, len(headings))
	for _, sample := range d.Samples {
		record[0] = sample.Timestamp.Format(time.RFC3339)
		for s, v := range sample.Values {
			record[s+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
