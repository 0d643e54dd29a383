package dataset

import (
	"math/rand/v2"
	"sort"

	"github.com/fieldvision/groundcover/pkg/errors"
)

// TrainTestSplit shuffles the samples with the given seed and splits
// off testFraction of them. The seed is an explicit parameter: splits
// must be reproducible without relying on ambient global state.
func TrainTestSplit(t *Table, testFraction float64, seed uint64) (train, test *Table, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValueError("TrainTestSplit", "testFraction must be in (0, 1)")
	}
	n := t.Len()
	if n < 2 {
		return nil, nil, errors.NewValueError("TrainTestSplit", "need at least 2 samples")
	}

	indices := shuffledIndices(n, seed)
	nTest := int(float64(n) * testFraction)
	if nTest == 0 {
		nTest = 1
	}

	test = t.Subset(indices[:nTest])
	train = t.Subset(indices[nTest:])
	return train, test, nil
}

// GroupShuffleSplit splits by group tag: all samples sharing a group
// (pixels from the same photo) land on the same side, so the test set
// never sees imagery the model trained on. Groups are assigned to the
// test side until at least testFraction of the samples is covered.
func GroupShuffleSplit(t *Table, testFraction float64, seed uint64) (train, test *Table, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValueError("GroupShuffleSplit", "testFraction must be in (0, 1)")
	}

	byGroup := make(map[string][]int)
	for i := 0; i < t.Len(); i++ {
		g := t.Group(i)
		byGroup[g] = append(byGroup[g], i)
	}
	if len(byGroup) < 2 {
		return nil, nil, errors.NewValueError("GroupShuffleSplit", "need at least 2 groups")
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})

	target := int(float64(t.Len()) * testFraction)
	if target == 0 {
		target = 1
	}

	var testIdx, trainIdx []int
	for _, g := range groups {
		if len(testIdx) < target {
			testIdx = append(testIdx, byGroup[g]...)
		} else {
			trainIdx = append(trainIdx, byGroup[g]...)
		}
	}
	if len(trainIdx) == 0 {
		return nil, nil, errors.NewValueError("GroupShuffleSplit", "testFraction leaves no training groups")
	}

	sort.Ints(testIdx)
	sort.Ints(trainIdx)
	return t.Subset(trainIdx), t.Subset(testIdx), nil
}

func shuffledIndices(n int, seed uint64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}
