package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTime  = time.Date(2025, 4, 1, 9, 15, 0, 0, time.UTC)
	testRunID = uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     testRunID,
		Job:       "arun-pf",
		Person:    "arun",
		Format:    "epf",
		Input:     "data/arun/pf",
		Output:    "out/arun/pf.csv",
		Files:     3,
		Failed:    1,
		Rows:      36,
		Status:    StatusOK,
	}
}

func TestAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run-log.csv")
	require.NoError(t, Append(path, []Entry{testEntry()}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-log.csv")
	require.NoError(t, Append(path, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Job = "arun-icici"
	e2.Status = StatusFailed
	e2.Error = "reading input: no such file, or directory"
	require.NoError(t, Append(path, []Entry{e2}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "arun-pf", entries[0].Job)
	assert.Equal(t, e2.Error, entries[1].Error)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-log.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(testEntry())
	require.Len(t, row, 12)
	assert.Equal(t, "2025-04-01T09:15:00Z", row[colTimestamp])
	assert.Equal(t, "7d444840-9dc0-11d1-b245-5ffdce74fad2", row[colRunID])
	assert.Equal(t, "36", row[colRows])
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 12 fields")

	row := MarshalEntry(testEntry())
	row[colRunID] = "not-a-uuid"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing run_id")

	row = MarshalEntry(testEntry())
	row[colFiles] = "three"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing count")
}

func TestNewRunID(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}
