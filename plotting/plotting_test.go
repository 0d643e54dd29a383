package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldvision/groundcover/composition"
	"github.com/fieldvision/groundcover/eval"
)

func evaluationRecords(t *testing.T) []eval.ErrorRecord {
	t.Helper()
	observed := []composition.Vector{
		{"grass": 0.6, "sand": 0.3, "dead": 0.1},
		{"grass": 0.2, "sand": 0.5, "dead": 0.3},
		{"grass": 0.1, "sand": 0.8, "dead": 0.1},
	}
	predicted := []composition.Vector{
		{"grass": 0.5, "sand": 0.4, "dead": 0.1},
		{"grass": 0.3, "sand": 0.4, "dead": 0.3},
		{"grass": 0.2, "sand": 0.7, "dead": 0.1},
	}
	records, err := eval.ComputeErrors(observed, predicted)
	require.NoError(t, err)
	return records
}

func TestObservedPredicted(t *testing.T) {
	records := evaluationRecords(t)
	path := filepath.Join(t.TempDir(), "scatter.png")

	require.NoError(t, ObservedPredicted(records, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestObservedPredictedEmpty(t *testing.T) {
	err := ObservedPredicted(nil, filepath.Join(t.TempDir(), "scatter.png"))
	assert.Error(t, err)
}

func TestTernary(t *testing.T) {
	records := evaluationRecords(t)
	long := eval.ToLongForm(records)
	path := filepath.Join(t.TempDir(), "ternary.png")

	require.NoError(t, Ternary(long, [3]string{"grass", "sand", "dead"}, true, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTernaryMissingClass(t *testing.T) {
	records := evaluationRecords(t)
	long := eval.ToLongForm(records)

	err := Ternary(long, [3]string{"grass", "sand", "water"}, false,
		filepath.Join(t.TempDir(), "ternary.png"))
	assert.Error(t, err, "class absent from the records")
}

func TestTernaryEmpty(t *testing.T) {
	err := Ternary(nil, [3]string{"a", "b", "c"}, false,
		filepath.Join(t.TempDir(), "ternary.png"))
	assert.Error(t, err)
}
