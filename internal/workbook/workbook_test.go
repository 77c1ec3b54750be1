package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "book.xlsx")
	err := Write(path,
		Sheet{Name: "Equity", Header: []string{" ISIN ", "Company"}, Rows: [][]any{{"INE001A01036", "HDFC"}, {"INE002A01018"}}},
		Sheet{Name: "LIC", Header: []string{"Policy No", "Benefit Amount"}, Rows: [][]any{{"123", 5000}}},
	)
	require.NoError(t, err)

	tables, err := ReadSheets(path, "Equity", "LIC", "Bond")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	eq := tables["Equity"]
	assert.Equal(t, []string{"ISIN", "Company"}, eq.Header)
	require.Len(t, eq.Rows, 2)
	assert.Equal(t, "HDFC", eq.Get(eq.Rows[0], "Company"))
	assert.Equal(t, "", eq.Get(eq.Rows[1], "Company"))
	assert.Equal(t, -1, eq.Col("Missing"))

	lic := tables["LIC"]
	assert.Equal(t, "5000", lic.Get(lic.Rows[0], "Benefit Amount"))
}

func TestReadSheet_First(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, Write(path, Sheet{Name: "Policies", Header: []string{"A"}, Rows: StringRows([][]string{{"x"}})}))

	tbl, err := ReadSheet(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Policies", tbl.Name)
	assert.Equal(t, [][]string{{"x"}}, tbl.Rows)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"45017", "2023-04-01", true},
		{"04-01-23", "2023-04-01", true},
		{"01/04/2023", "2023-04-01", true},
		{"2023-04-01 00:00:00", "2023-04-01", true},
		{"", "", false},
		{"soon", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}
