package dataset

import (
	"math/rand/v2"
)

// CVFold is one train/test partition in a cross-validation run.
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds over n samples.
type Splitter interface {
	Split(t *Table) []CVFold
	NSplits() int
}

// KFold partitions samples into k folds, optionally shuffling with a
// fixed seed first.
type KFold struct {
	nSplits int
	shuffle bool
	seed    uint64
}

// NewKFold creates a k-fold splitter. Fewer than 2 splits falls back to
// the conventional 5.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.nSplits
}

// Split generates train/test indices for each fold.
func (kf *KFold) Split(t *Table) []CVFold {
	n := t.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.shuffle {
		r := rand.New(rand.NewPCG(kf.seed, kf.seed))
		r.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]CVFold, kf.nSplits)
	foldSize := n / kf.nSplits
	remainder := n % kf.nSplits

	current := 0
	for f := 0; f < kf.nSplits; f++ {
		testSize := foldSize
		if f < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])

		inTest := make(map[int]bool, testSize)
		for _, idx := range test {
			inTest[idx] = true
		}
		train := make([]int, 0, n-testSize)
		for _, idx := range indices {
			if !inTest[idx] {
				train = append(train, idx)
			}
		}

		folds[f] = CVFold{TrainIndices: train, TestIndices: test}
		current += testSize
	}
	return folds
}

// GroupKFold assigns whole groups to folds so no photo contributes
// pixels to both sides of any fold.
type GroupKFold struct {
	nSplits int
	seed    uint64
}

// NewGroupKFold creates a grouped k-fold splitter.
func NewGroupKFold(nSplits int, seed uint64) *GroupKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &GroupKFold{nSplits: nSplits, seed: seed}
}

// NSplits returns the number of folds.
func (gk *GroupKFold) NSplits() int {
	return gk.nSplits
}

// Split distributes groups round-robin across folds after a seeded
// shuffle of the group order.
func (gk *GroupKFold) Split(t *Table) []CVFold {
	byGroup := make(map[string][]int)
	var order []string
	for i := 0; i < t.Len(); i++ {
		g := t.Group(i)
		if _, seen := byGroup[g]; !seen {
			order = append(order, g)
		}
		byGroup[g] = append(byGroup[g], i)
	}

	r := rand.New(rand.NewPCG(gk.seed, gk.seed))
	r.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	folds := make([]CVFold, gk.nSplits)
	for i, g := range order {
		f := i % gk.nSplits
		folds[f].TestIndices = append(folds[f].TestIndices, byGroup[g]...)
	}

	for f := range folds {
		inTest := make(map[int]bool, len(folds[f].TestIndices))
		for _, idx := range folds[f].TestIndices {
			inTest[idx] = true
		}
		for i := 0; i < t.Len(); i++ {
			if !inTest[i] {
				folds[f].TrainIndices = append(folds[f].TrainIndices, i)
			}
		}
	}
	return folds
}
