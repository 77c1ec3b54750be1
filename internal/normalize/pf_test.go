package normalize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/config"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/people"
)

const extractHeader = "Establishment ID,Establishment Name,Member ID,Member Name,Date of Birth,UAN,Year,TransactionType,Wage Month,Date,Type,Particulars,Wages,Contribution,EPF (Employee),EPS (Employer),Pension,Source File\n"

var fixedNow = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func directory() *people.Directory {
	return people.NewDirectory([]config.Person{
		{ID: "arun", Name: "Arun Venkatesan", Aliases: []string{"ARUN VENKATESAN"}},
	})
}

func TestExpandInputs(t *testing.T) {
	assert.Equal(t, []string{"a.csv", "b.csv"}, ExpandInputs([]string{"a.csv, b.csv,"}))
	assert.Equal(t, []string{"a.csv", "b.csv"}, ExpandInputs([]string{"a.csv", "b.csv"}))
	assert.Equal(t, []string{"a.csv"}, ExpandInputs([]string{"a.csv"}))
}

func TestPF(t *testing.T) {
	dir := t.TempDir()
	in1 := filepath.Join(dir, "pf_2020.csv")
	in2 := filepath.Join(dir, "pf_2021.csv")
	writeFile(t, in1, extractHeader+
		`EST1,ACME,MEM1,ARUN VENKATESAN,01-06-1985,100200,2020,Contribution,Apr-2020,15-05-2020,CR,Cont. For Due-Month 052020,"15,000",1800,1800,1250,550,EST1_2020.pdf`+"\n"+
		`EST1,ACME,MEM1,ARUN VENKATESAN,01-06-1985,100200,2020,Interest,,31/03/2021,CR,Interest Updated,,,12345,2100,0,EST1_2020.pdf`+"\n")
	writeFile(t, in2, extractHeader+
		`EST2,GLOBEX,MEM2,KAVYA RAO,02-02-1990,300400,2021,Contribution,Apr-2021,15-05-2021,CR,Cont. For Due-Month 052021,20000,2400,2400,1650,750,EST2_2021.pdf`+"\n"+
		`EST1,ACME,MEM1,ARUN VENKATESAN,01-06-1985,100200,2020,Interest,,31/03/2021,CR,Interest Updated,,,99999,0,0,EST1_2020.pdf`+"\n")

	out := filepath.Join(dir, "normalize", "pf.csv")
	res, err := PF(Options{Inputs: []string{in1, in2}, Output: out, People: directory(), Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Added)
	assert.Empty(t, res.Archived)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"Person,UAN,Establishment Name,Member ID,Year,Transaction Type,Date,Particulars,Wages,Contribution,EPF Employee,EPF Employer,Pension\n"+
			"Arun Venkatesan,100200,ACME,MEM1,2020,Contribution,15-05-2020,Cont. For Due-Month 052020,15000,1800,1800,1250,550\n"+
			"Arun Venkatesan,100200,ACME,MEM1,2020,Interest,31/03/2021,Interest Updated,,,12345,2100,0\n"+
			"Kavya Rao,300400,GLOBEX,MEM2,2021,Contribution,15-05-2021,Cont. For Due-Month 052021,20000,2400,2400,1650,750\n",
		string(data))

	// A second run archives the previous output and adds nothing new.
	res, err = PF(Options{Inputs: []string{in2}, Output: out, People: directory(), Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, filepath.Join(dir, "normalize", "archive", "2025-04-01", "pf.csv"), res.Archived)

	archived, err := os.ReadFile(res.Archived)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(archived))
}

func TestPFMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := PF(Options{Inputs: []string{filepath.Join(dir, "nope.csv")}, Output: filepath.Join(dir, "pf.csv")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = PF(Options{Output: filepath.Join(dir, "pf.csv")})
	assert.ErrorContains(t, err, "input file")
}

func TestMerge(t *testing.T) {
	a := model.PFRecord{Person: "A", UAN: "1", Year: "2020", TransactionType: "Interest", Date: "31/03/2021", EPFEmployee: "10"}
	b := a
	b.EPFEmployee = "20"
	c := a
	c.Year = "2021"

	merged, added := Merge([]model.PFRecord{a}, []model.PFRecord{b, c, c})
	require.Len(t, merged, 2)
	assert.Equal(t, 1, added)
	assert.Equal(t, "10", merged[0].EPFEmployee)
	assert.Equal(t, "2021", merged[1].Year)
}

func TestArchiveNothing(t *testing.T) {
	path, err := Archive(filepath.Join(t.TempDir(), "pf.csv"), fixedNow)
	require.NoError(t, err)
	assert.Empty(t, path)
}
