package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTable(t *testing.T, nGroups, perGroup int) *Table {
	t.Helper()
	table := NewTable([]string{"ndvi"}, []string{"grass", "sand"})
	for g := 0; g < nGroups; g++ {
		for i := 0; i < perGroup; i++ {
			table.Append([]float64{float64(g) + float64(i)/10},
				map[string]int{"grass": 1 + i, "sand": 1}, groupName(g))
		}
	}
	return table
}

func groupName(g int) string {
	return string(rune('a'+g)) + "-photo"
}

func TestTrainTestSplit(t *testing.T) {
	table := buildTable(t, 5, 10)

	train, test, err := TrainTestSplit(table, 0.3, 42)
	require.NoError(t, err)

	assert.Equal(t, 15, test.Len())
	assert.Equal(t, 35, train.Len())
	assert.Equal(t, table.Len(), train.Len()+test.Len())
}

func TestTrainTestSplitReproducible(t *testing.T) {
	table := buildTable(t, 5, 10)

	train1, test1, err := TrainTestSplit(table, 0.3, 7)
	require.NoError(t, err)
	train2, test2, err := TrainTestSplit(table, 0.3, 7)
	require.NoError(t, err)

	assert.Equal(t, test1.Features().RawMatrix().Data, test2.Features().RawMatrix().Data)
	assert.Equal(t, train1.Features().RawMatrix().Data, train2.Features().RawMatrix().Data)

	// A different seed produces a different shuffle of 50 samples.
	_, test3, err := TrainTestSplit(table, 0.3, 8)
	require.NoError(t, err)
	assert.NotEqual(t, test1.Features().RawMatrix().Data, test3.Features().RawMatrix().Data)
}

func TestTrainTestSplitValidation(t *testing.T) {
	table := buildTable(t, 2, 2)

	_, _, err := TrainTestSplit(table, 0.0, 1)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(table, 1.0, 1)
	assert.Error(t, err)
}

func TestGroupShuffleSplitNoLeakage(t *testing.T) {
	table := buildTable(t, 6, 8)

	train, test, err := GroupShuffleSplit(table, 0.3, 42)
	require.NoError(t, err)
	assert.Equal(t, table.Len(), train.Len()+test.Len())

	trainGroups := make(map[string]bool)
	for i := 0; i < train.Len(); i++ {
		trainGroups[train.Group(i)] = true
	}
	for i := 0; i < test.Len(); i++ {
		assert.False(t, trainGroups[test.Group(i)],
			"group %s appears on both sides of the split", test.Group(i))
	}
}

func TestGroupShuffleSplitSingleGroup(t *testing.T) {
	table := NewTable([]string{"ndvi"}, []string{"grass", "sand"})
	for i := 0; i < 4; i++ {
		table.Append([]float64{float64(i)}, map[string]int{"grass": 1, "sand": 1}, "only")
	}

	_, _, err := GroupShuffleSplit(table, 0.5, 1)
	assert.Error(t, err, "cannot group-split a single group")
}

func TestKFold(t *testing.T) {
	table := buildTable(t, 4, 5)
	kf := NewKFold(4, true, 42)
	folds := kf.Split(table)

	require.Len(t, folds, 4)

	seen := make(map[int]int)
	for _, fold := range folds {
		assert.Equal(t, table.Len(), len(fold.TrainIndices)+len(fold.TestIndices))
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}

		inTest := make(map[int]bool)
		for _, idx := range fold.TestIndices {
			inTest[idx] = true
		}
		for _, idx := range fold.TrainIndices {
			assert.False(t, inTest[idx], "index %d in both train and test", idx)
		}
	}

	// Every sample is a test sample exactly once across folds.
	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, 1, seen[i], "sample %d", i)
	}
}

func TestGroupKFoldNoLeakage(t *testing.T) {
	table := buildTable(t, 6, 4)
	gk := NewGroupKFold(3, 42)
	folds := gk.Split(table)

	require.Len(t, folds, 3)
	for _, fold := range folds {
		testGroups := make(map[string]bool)
		for _, idx := range fold.TestIndices {
			testGroups[table.Group(idx)] = true
		}
		for _, idx := range fold.TrainIndices {
			assert.False(t, testGroups[table.Group(idx)],
				"group %s spans train and test in one fold", table.Group(idx))
		}
	}
}

func TestLoadThenSplit(t *testing.T) {
	csv := `group,ndvi,count_grass,count_sand
p1,0.1,1,9
p1,0.2,2,8
p2,0.3,3,7
p2,0.4,4,6
p3,0.5,5,5
p3,0.6,6,4
`
	table, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	train, test, err := GroupShuffleSplit(table, 0.34, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, train.Len()+test.Len())
	assert.GreaterOrEqual(t, test.Len(), 2)
}
