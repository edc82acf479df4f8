// Package tabular parses uploaded CSV and XLSX files into a uniform table.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a parsed spreadsheet: a header row plus data rows.
type Table struct {
	Headers     []string
	Rows        [][]string
	NumericCols []int
}

// ParseCSV reads an entire CSV stream into a Table.
func ParseCSV(r io.Reader) (Table, error) {
	var t Table
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return t, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return t, fmt.Errorf("empty csv file")
	}
	t.Headers = fillHeaders(rows[0])
	t.Rows = rows[1:]
	t.NumericCols = detectNumericColumns(t)
	return t, nil
}

// ParseXLSX reads the first sheet of an XLSX stream into a Table.
func ParseXLSX(r io.Reader) (Table, error) {
	var t Table
	f, err := excelize.OpenReader(r)
	if err != nil {
		return t, fmt.Errorf("reading xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return t, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return t, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return t, fmt.Errorf("empty xlsx file")
	}
	t.Headers = fillHeaders(rows[0])
	t.Rows = rows[1:]
	t.NumericCols = detectNumericColumns(t)
	return t, nil
}

// Preview returns up to n data rows.
func (t Table) Preview(n int) [][]string {
	if len(t.Rows) <= n {
		return t.Rows
	}
	return t.Rows[:n]
}

// Digest builds a compact plain-text description of the table used as AI
// prompt context: headers, row count, numeric column stats, and sample rows.
func (t Table) Digest(sampleRows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(t.Headers, ", "))
	fmt.Fprintf(&b, "Data rows: %d\n", len(t.Rows))

	for _, col := range t.NumericCols {
		min, max, mean, count := columnStats(t, col)
		if count == 0 {
			continue
		}
		fmt.Fprintf(&b, "Numeric column %q: min=%.4g max=%.4g mean=%.4g (n=%d)\n",
			t.Headers[col], min, max, mean, count)
	}

	sample := t.Preview(sampleRows)
	if len(sample) > 0 {
		b.WriteString("Sample rows:\n")
		for _, row := range sample {
			fmt.Fprintf(&b, "  %s\n", strings.Join(row, " | "))
		}
	}
	return b.String()
}

func fillHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

func detectNumericColumns(t Table) []int {
	var numericCols []int
	for col := range t.Headers {
		if isColumnNumeric(t, col) {
			numericCols = append(numericCols, col)
		}
	}
	return numericCols
}

// isColumnNumeric treats a column as numeric when at least 80% of its
// non-empty cells parse as floats.
func isColumnNumeric(t Table, colIndex int) bool {
	numericCount := 0
	totalCount := 0
	for _, row := range t.Rows {
		if colIndex >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[colIndex])
		if val == "" {
			continue
		}
		totalCount++
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			numericCount++
		}
	}
	if totalCount == 0 {
		return false
	}
	return float64(numericCount)/float64(totalCount) >= 0.8
}

func columnStats(t Table, colIndex int) (min, max, mean float64, count int) {
	sum := 0.0
	for _, row := range t.Rows {
		if colIndex >= len(row) {
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(row[colIndex]), 64)
		if err != nil {
			continue
		}
		if count == 0 || val < min {
			min = val
		}
		if count == 0 || val > max {
			max = val
		}
		sum += val
		count++
	}
	if count > 0 {
		mean = sum / float64(count)
	}
	return min, max, mean, count
}
