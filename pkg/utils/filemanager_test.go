package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "output")
	b := filepath.Join(root, "logs", "calls")

	require.NoError(t, EnsureDirectories(a, "", b))
	assert.DirExists(t, a)
	assert.DirExists(t, b)

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, EnsureDirectories(filepath.Join(file, "sub")))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "operations.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.json")))
}

func TestGenerateOutputFileNameAt(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	assert.Equal(t, "report_20240115_143022.xml",
		GenerateOutputFileNameAt("report_{timestamp}", nil, now))
	assert.Equal(t, "EXECUTED_20240115_143022.XML",
		GenerateOutputFileNameAt("{state}_{date}_{time}.XML", map[string]string{"state": "EXECUTED"}, now))

	name := GenerateOutputFileNameAt("{state}_{date}_{uuid}.xml", map[string]string{"state": "EXECUTED"}, now)
	re := regexp.MustCompile(`^EXECUTED_20240115_([0-9a-f-]{36})\.xml$`)
	m := re.FindStringSubmatch(name)
	require.Len(t, m, 2, name)
	_, err := uuid.Parse(m[1])
	assert.NoError(t, err)
}

func TestGenerateOutputFileName_KeepsUpperCaseExtension(t *testing.T) {
	assert.Equal(t, "out.XML", GenerateOutputFileName("out.XML", nil))
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestWriteSummaryLog(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	summary := ProcessingSummary{
		RunID:          "run-1",
		InputFile:      "data/operations.json",
		ReportFile:     "output/report.xml",
		TargetCurrency: "RUB",
		StartTime:      start,
		EndTime:        start.Add(1500 * time.Millisecond),
		Loaded:         5,
		Selected:       3,
		Resolved:       2,
		Converted:      1,
		Passthrough:    1,
		Total:          "39457.58",
		Failed:         []FailedRecord{{Index: 2, ID: "3", ErrorMessage: "Unsupported currency: GBP"}},
	}

	path, err := WriteSummaryLog(summary, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "processing_summary_20240115_143001.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Run ID:         run-1")
	assert.Contains(t, out, "Duration:       1.5s")
	assert.Contains(t, out, "Failed:         1")
	assert.Contains(t, out, "Total (RUB):    39457.58")
	assert.Contains(t, out, "#3 (id=3): Unsupported currency: GBP")

	_, err = WriteSummaryLog(summary, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "failed to create summary file")
}
