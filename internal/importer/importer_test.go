package importer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/workbook"
)

type line struct {
	File string `json:"file"`
	Text string `json:"text"`
}

func lineSpec(requireRows bool) Spec[line] {
	return Spec[line]{
		Format:      "lines",
		Description: "one record per line",
		Ext:         ".txt",
		RequireRows: requireRows,
		Header:      []string{"file", "text"},
		Match:       func(name string) bool { return !strings.HasPrefix(name, "skip") },
		Parse: func(path string, _ Options) ([]line, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(string(data), "BROKEN") {
				return nil, errors.New("broken statement")
			}
			var out []line
			for _, l := range strings.Split(strings.TrimSpace(string(data)), "\n") {
				if l != "" {
					out = append(out, line{File: filepath.Base(path), Text: l})
				}
			}
			return out, nil
		},
		Marshal: func(l line) []string { return []string{l.File, l.Text} },
		Compare: func(a, b line) int { return strings.Compare(a.Text, b.Text) },
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.TXT"), "x")
	writeFile(t, filepath.Join(dir, "a.txt"), "x")
	writeFile(t, filepath.Join(dir, "c.pdf"), "x")
	writeFile(t, filepath.Join(dir, "sub", "d.txt"), "x")

	files, err := Scan(dir, ".txt", false)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.TXT", files[1].Name)

	files, err = Scan(dir, ".txt", true)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = Scan(filepath.Join(dir, "c.pdf"), ".txt", false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "c.pdf", files[0].Name)

	_, err = Scan(filepath.Join(dir, "missing"), ".txt", false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(New(lineSpec(false)))

	assert.NotNil(t, r.Get("LINES"))
	assert.Nil(t, r.Get("other"))
	assert.Equal(t, []string{"lines"}, r.Formats())
	assert.Panics(t, func() { r.Register(New(lineSpec(true))) })
}

func TestConvert_WritesSortedOutputs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(in, "one.txt"), "zeta\nalpha\n")
	writeFile(t, filepath.Join(in, "two.txt"), "BROKEN")
	writeFile(t, filepath.Join(in, "skip-me.txt"), "ignored")
	writeFile(t, filepath.Join(in, "three.txt"), "\n")

	opts := Options{
		InputFolder: in,
		OutputCSV:   filepath.Join(dir, "out", "lines.csv"),
		OutputJSON:  filepath.Join(dir, "out", "lines.json"),
		OutputExcel: filepath.Join(dir, "out", "lines.xlsx"),
	}
	res, err := New(lineSpec(false)).Convert(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Rows)

	data, err := os.ReadFile(opts.OutputCSV)
	require.NoError(t, err)
	assert.Equal(t, "file,text\none.txt,alpha\none.txt,zeta\n", string(data))

	raw, err := os.ReadFile(opts.OutputJSON)
	require.NoError(t, err)
	var got []line
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, []line{{"one.txt", "alpha"}, {"one.txt", "zeta"}}, got)

	tbl, err := workbook.ReadSheet(opts.OutputExcel, "lines")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"one.txt", "alpha"}, {"one.txt", "zeta"}}, tbl.Rows)
}

func TestConvert_EmptyAllowed(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	res, err := New(lineSpec(false)).Convert(context.Background(), Options{InputFolder: dir, OutputCSV: out})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "file,text\n", string(data))
}

func TestConvert_RequireRows(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	_, err := New(lineSpec(true)).Convert(context.Background(), Options{InputFolder: dir, OutputCSV: out})
	assert.ErrorIs(t, err, ErrNoInput)

	writeFile(t, filepath.Join(dir, "empty.txt"), "\n")
	_, err = New(lineSpec(true)).Convert(context.Background(), Options{InputFolder: dir, OutputCSV: out})
	assert.ErrorIs(t, err, ErrNoRows)
	assert.NoFileExists(t, out)
}

func TestConvert_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(lineSpec(false)).Convert(ctx, Options{InputFolder: dir, OutputCSV: filepath.Join(dir, "o.csv")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvert_MissingOptions(t *testing.T) {
	_, err := New(lineSpec(false)).Convert(context.Background(), Options{OutputCSV: "x.csv"})
	assert.Error(t, err)
	_, err = New(lineSpec(false)).Convert(context.Background(), Options{InputFolder: t.TempDir()})
	assert.Error(t, err)
}
