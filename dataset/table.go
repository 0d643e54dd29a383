// Package dataset loads the precomputed pixel tables produced by the
// imagery pipeline and provides seeded train/test resampling over them.
//
// A table row is one sample (a pixel or pixel aggregate): numeric
// predictors plus annotated class counts, optionally tagged with the
// source photo so splits can be grouped to avoid leakage between
// pixels of the same image.
package dataset

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/fieldvision/groundcover/composition"
	"github.com/fieldvision/groundcover/pkg/errors"
)

// Column naming convention for the input CSV: class-count columns are
// prefixed "count_", an optional "group" column names the source photo,
// and every remaining column is a numeric predictor.
const (
	countPrefix = "count_"
	groupColumn = "group"
)

// Table holds one experiment's samples in memory.
type Table struct {
	FeatureNames []string
	ClassNames   []string

	features [][]float64
	counts   []map[string]int
	groups   []string
}

// Load parses a pixel table from CSV. The first row is the header.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	var (
		featureCols []int
		countCols   []int
		groupCol    = -1
	)
	t := &Table{}
	for i, name := range header {
		switch {
		case name == groupColumn:
			groupCol = i
		case strings.HasPrefix(name, countPrefix):
			countCols = append(countCols, i)
			t.ClassNames = append(t.ClassNames, strings.TrimPrefix(name, countPrefix))
		default:
			featureCols = append(featureCols, i)
			t.FeatureNames = append(t.FeatureNames, name)
		}
	}
	if len(countCols) == 0 {
		return nil, errors.NewValueError("dataset.Load", "no count_ columns in header")
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read row")
		}

		feats := make([]float64, len(featureCols))
		for j, col := range featureCols {
			feats[j], err = strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "bad value in column %s", header[col])
			}
		}

		counts := make(map[string]int, len(countCols))
		for j, col := range countCols {
			n, err := strconv.Atoi(row[col])
			if err != nil {
				return nil, errors.Wrapf(err, "bad count in column %s", header[col])
			}
			counts[t.ClassNames[j]] = n
		}

		group := ""
		if groupCol >= 0 {
			group = row[groupCol]
		}

		t.features = append(t.features, feats)
		t.counts = append(t.counts, counts)
		t.groups = append(t.groups, group)
	}

	if t.Len() == 0 {
		return nil, errors.ErrEmptyData
	}
	return t, nil
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.features)
}

// Group returns the group tag of sample i (empty when untagged).
func (t *Table) Group(i int) string {
	return t.groups[i]
}

// Features returns the predictors as an n x p matrix.
func (t *Table) Features() *mat.Dense {
	n, p := t.Len(), len(t.FeatureNames)
	X := mat.NewDense(n, p, nil)
	for i, row := range t.features {
		X.SetRow(i, row)
	}
	return X
}

// Compositions converts each sample's class counts into a fraction
// vector summing to 1.
func (t *Table) Compositions() ([]composition.Vector, error) {
	out := make([]composition.Vector, t.Len())
	for i, counts := range t.counts {
		v, err := composition.FromCounts(counts)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// Labels returns each sample's dominant class as an integer label in an
// n x 1 matrix. Labels index into the sorted class-name list, which is
// also what the classifiers report from Classes.
func (t *Table) Labels() (*mat.Dense, error) {
	classIndex := make(map[string]int, len(t.ClassNames))
	for i, name := range t.SortedClassNames() {
		classIndex[name] = i
	}

	y := mat.NewDense(t.Len(), 1, nil)
	for i, counts := range t.counts {
		v, err := composition.FromCounts(counts)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		y.Set(i, 0, float64(classIndex[v.Dominant()]))
	}
	return y, nil
}

// SortedClassNames returns the class names in sorted order. This is
// the column order of PredictProba output for classifiers trained on
// Labels, so it is what FromProbaMatrix should be given.
func (t *Table) SortedClassNames() []string {
	sorted := append([]string(nil), t.ClassNames...)
	sort.Strings(sorted)
	return sorted
}

// Subset returns a new table holding the given rows in order.
func (t *Table) Subset(indices []int) *Table {
	sub := &Table{
		FeatureNames: t.FeatureNames,
		ClassNames:   t.ClassNames,
		features:     make([][]float64, len(indices)),
		counts:       make([]map[string]int, len(indices)),
		groups:       make([]string, len(indices)),
	}
	for i, idx := range indices {
		sub.features[i] = t.features[idx]
		sub.counts[i] = t.counts[idx]
		sub.groups[i] = t.groups[idx]
	}
	return sub
}

// Append adds one sample. Used by tests and by callers assembling
// tables from sources other than CSV.
func (t *Table) Append(features []float64, counts map[string]int, group string) {
	t.features = append(t.features, features)
	t.counts = append(t.counts, counts)
	t.groups = append(t.groups, group)
}

// NewTable creates an empty table with the given schema.
func NewTable(featureNames, classNames []string) *Table {
	return &Table{FeatureNames: featureNames, ClassNames: classNames}
}
