// Package composition defines the compositional data model for
// ground-cover analysis: per-sample vectors of class fractions (grass,
// sand, dead vegetation, ...) that ideally sum to 1.
package composition

import (
	"math"
	"sort"

	"github.com/fieldvision/groundcover/pkg/errors"
)

// Vector maps a cover class name to its fraction of a sample, in [0,1].
// A true k-class composition sums to 1 up to floating-point tolerance.
type Vector map[string]float64

// Classes returns the class names of the vector in sorted order.
func (v Vector) Classes() []string {
	classes := make([]string, 0, len(v))
	for class := range v {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Sum returns the total of all fractions.
func (v Vector) Sum() float64 {
	var sum float64
	for _, f := range v {
		sum += f
	}
	return sum
}

// SameClasses reports whether v and other hold exactly the same class
// names.
func (v Vector) SameClasses(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for class := range v {
		if _, ok := other[class]; !ok {
			return false
		}
	}
	return true
}

// CloseToOne reports whether the fractions sum to 1 within tol.
func (v Vector) CloseToOne(tol float64) bool {
	return math.Abs(v.Sum()-1.0) <= tol
}

// Normalize returns a copy of v rescaled to sum to 1. Model outputs
// that are scores rather than probabilities go through this before
// evaluation. An all-zero vector cannot be normalized.
func (v Vector) Normalize() (Vector, error) {
	sum := v.Sum()
	if sum == 0 {
		return nil, errors.NewValueError("Vector.Normalize", "cannot normalize zero-sum vector")
	}
	out := make(Vector, len(v))
	for class, f := range v {
		out[class] = f / sum
	}
	return out, nil
}

// FromCounts converts annotated pixel counts per class to fractions.
// Ground truth in the field campaigns is recorded as point counts per
// photo quadrat; fractions are counts over the quadrat total.
func FromCounts(counts map[string]int) (Vector, error) {
	var total int
	for class, n := range counts {
		if n < 0 {
			return nil, errors.NewValueError("FromCounts", "negative count for class "+class)
		}
		total += n
	}
	if total == 0 {
		return nil, errors.NewEmptyInputError("FromCounts")
	}
	v := make(Vector, len(counts))
	for class, n := range counts {
		v[class] = float64(n) / float64(total)
	}
	return v, nil
}

// Dominant returns the class with the largest fraction. Ties break
// toward the lexicographically smaller name so the result is
// deterministic.
func (v Vector) Dominant() string {
	var best string
	bestFrac := math.Inf(-1)
	for _, class := range v.Classes() {
		if v[class] > bestFrac {
			best = class
			bestFrac = v[class]
		}
	}
	return best
}
