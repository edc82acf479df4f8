package tabular

import (
	"strings"
	"testing"
)

const sampleCSV = `lot_id,yield_pct,notes
LOT-001,97.2,ok
LOT-002,95.8,ok
LOT-003,,retest
LOT-004,88.1,edge die loss
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(table.Headers) != 3 {
		t.Fatalf("headers = %v", table.Headers)
	}
	if len(table.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(table.Rows))
	}
	// yield_pct is numeric (all non-empty cells parse); lot_id and notes are not.
	if len(table.NumericCols) != 1 || table.NumericCols[0] != 1 {
		t.Errorf("NumericCols = %v, want [1]", table.NumericCols)
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestFillHeadersBlanks(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("a,,c\n1,2,3\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if table.Headers[1] != "Column_2" {
		t.Errorf("blank header = %q, want Column_2", table.Headers[1])
	}
}

func TestNumericThreshold(t *testing.T) {
	// 3 of 4 non-empty values numeric = 75%, below the 80% threshold.
	csv := "v\n1\n2\n3\nnope\n"
	table, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(table.NumericCols) != 0 {
		t.Errorf("NumericCols = %v, want none at 75%% numeric", table.NumericCols)
	}
}

func TestPreviewCaps(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if got := len(table.Preview(2)); got != 2 {
		t.Errorf("Preview(2) len = %d", got)
	}
	if got := len(table.Preview(100)); got != 4 {
		t.Errorf("Preview(100) len = %d, want all rows", got)
	}
}

func TestDigestMentionsStats(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	digest := table.Digest(2)
	for _, want := range []string{"Data rows: 4", "yield_pct", "Sample rows:"} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q:\n%s", want, digest)
		}
	}
}
