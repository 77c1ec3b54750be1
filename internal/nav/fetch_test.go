package nav

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/workbook"
)

type fakeSource map[string][]Point

func (f fakeSource) History(_ context.Context, code string) ([]Point, error) {
	p, ok := f[code]
	if !ok {
		return nil, errors.New("unknown scheme")
	}
	return p, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func point(d time.Time, nav string) Point {
	return Point{Date: d, NAV: decimal.RequireFromString(nav)}
}

func TestFundFileName(t *testing.T) {
	f := Fund{ISIN: "INF179K01BB8", FundName: "HDFC", SchemeName: "Balanced Advantage - Growth/Direct"}
	assert.Equal(t, "INF179K01BB8-HDFC-Balanced Advantage - Growth-Direct.xlsx", f.FileName())
}

func TestDelta(t *testing.T) {
	points := []Point{
		point(date(2024, 1, 1), "10"),
		point(date(2024, 1, 2), "11"),
		point(date(2024, 1, 3), "12"),
	}

	fresh := Delta(points, time.Time{}, false, date(2024, 1, 2))
	assert.Len(t, fresh, 2)
	assert.Equal(t, date(2024, 1, 2), fresh[0].Date)

	incremental := Delta(points, date(2024, 1, 2), true, date(2023, 1, 1))
	require.Len(t, incremental, 1)
	assert.Equal(t, date(2024, 1, 3), incremental[0].Date)
	assert.Len(t, points, 3)
}

func TestMerge(t *testing.T) {
	f := Fund{ISIN: "INF1"}
	existing := []Row{{Fund: f, Date: date(2024, 1, 3), NAV: decimal.NewFromInt(3)}, {Fund: f, Date: date(2024, 1, 1), NAV: decimal.NewFromInt(1)}}
	incoming := []Row{{Fund: f, Date: date(2024, 1, 1), NAV: decimal.NewFromInt(99)}, {Fund: f, Date: date(2024, 1, 2), NAV: decimal.NewFromInt(2)}}

	got := Merge(existing, incoming)

	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].NAV.String())
	assert.Equal(t, "2", got[1].NAV.String())
	assert.Equal(t, "3", got[2].NAV.String())
}

func writeMaster(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, workbook.Write(path,
		workbook.Sheet{
			Name:   SheetFunds,
			Header: []string{"AMFI Code", "ISIN", "Fund Name", "Scheme Name", "Folio No"},
			Rows: [][]any{
				{"119551", "INF1", "Axis", "Bluechip", "F1"},
				{"120000", "INF2", "HDFC", "Flexi/Cap", "F2"},
				{"999999", "INF3", "Quant", "Small Cap", "F3"},
				{"", "INF4", "SBI", "Nifty", "F4"},
			},
		},
		workbook.Sheet{
			Name:   SheetTransactions,
			Header: []string{"Fund Name", "Scheme Name", "Folio No", "Date"},
			Rows: [][]any{
				{"Axis", "Bluechip", "F1", "2024-01-03"},
				{"Axis", "Bluechip", "F1", "2024-01-02"},
				{"Quant", "Small Cap", "F3", "2024-01-02"},
				{"SBI", "Nifty", "F4", "2024-01-02"},
			},
		},
	))
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "mdm.xlsx")
	writeMaster(t, master)
	out := filepath.Join(dir, "history")

	src := fakeSource{
		"119551": {point(date(2024, 1, 1), "9"), point(date(2024, 1, 2), "10"), point(date(2024, 1, 3), "10.5")},
		"120000": {point(date(2024, 1, 1), "50")},
	}
	logger, hook := test.NewNullLogger()
	opts := Options{Workbook: master, OutputFolder: out, Source: src, Concurrency: 2, Logger: logger}

	res, err := Fetch(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, Result{Funds: 4, Skipped: 1, Updated: 1, Failed: 2, Rows: 2}, res)
	assert.NotEmpty(t, hook.AllEntries())

	path := filepath.Join(out, "INF1-Axis-Bluechip.xlsx")
	rows, err := ReadHistory(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, date(2024, 1, 2), rows[0].Date)
	assert.Equal(t, "119551", rows[0].AMFICode)
	assert.Equal(t, "F1", rows[0].FolioNo)

	src["119551"] = append(src["119551"], point(date(2024, 1, 4), "11"))
	res, err = Fetch(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Rows)

	rows, err = ReadHistory(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "11", rows[2].NAV.String())

	res, err = Fetch(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unchanged)
}

func TestReadHistory_Missing(t *testing.T) {
	rows, err := ReadHistory(filepath.Join(t.TempDir(), "none.xlsx"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
