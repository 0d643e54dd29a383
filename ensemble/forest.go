// Package ensemble binds the tree-ensemble model collaborator. The
// trees themselves come from github.com/malaschitz/randomForest; this
// package adapts its API to the Classifier contract so the evaluation
// pipeline can swap it with the multinomial regression.
package ensemble

import (
	"sort"

	randomforest "github.com/malaschitz/randomForest"
	"gonum.org/v1/gonum/mat"

	"github.com/fieldvision/groundcover/core/model"
	"github.com/fieldvision/groundcover/metrics"
	"github.com/fieldvision/groundcover/pkg/errors"
)

// ForestClassifier predicts cover-class probabilities with a random
// forest. Vote fractions across trees serve as the per-class scores.
type ForestClassifier struct {
	model.BaseEstimator

	trees       int
	forest      *randomforest.Forest
	ClassLabels []int
	NFeatures   int
}

// ForestOption configures a ForestClassifier.
type ForestOption func(*ForestClassifier)

// WithTrees sets the number of trees (default 500).
func WithTrees(n int) ForestOption {
	return func(fc *ForestClassifier) {
		fc.trees = n
	}
}

// NewForestClassifier creates an unfitted forest.
func NewForestClassifier(opts ...ForestOption) *ForestClassifier {
	fc := &ForestClassifier{trees: 500}
	for _, opt := range opts {
		opt(fc)
	}
	return fc
}

// Fit trains the forest on features X and integer labels y (n x 1).
// The library indexes classes densely from 0, so labels must be
// 0..k-1.
func (fc *ForestClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("ForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("ForestClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("ForestClassifier.Fit", "y must be a column vector (n x 1)")
	}

	xData := make([][]float64, nSamples)
	yData := make([]int, nSamples)
	seen := make(map[int]bool)
	for i := 0; i < nSamples; i++ {
		row := make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		xData[i] = row
		yData[i] = int(y.At(i, 0))
		seen[yData[i]] = true
	}

	labels := make([]int, 0, len(seen))
	for c := range seen {
		labels = append(labels, c)
	}
	sort.Ints(labels)
	for i, c := range labels {
		if c != i {
			return errors.NewValidationError("ForestClassifier.Fit",
				"labels must be dense integers starting at 0", labels)
		}
	}

	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xData, Class: yData}
	forest.Train(fc.trees)

	fc.forest = forest
	fc.ClassLabels = labels
	fc.NFeatures = nFeatures
	fc.SetFitted()
	return nil
}

// PredictProba returns an n x k matrix of tree-vote fractions.
func (fc *ForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !fc.IsFitted() {
		return nil, errors.NewNotFittedError("ForestClassifier", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != fc.NFeatures {
		return nil, errors.NewDimensionError("ForestClassifier.PredictProba", fc.NFeatures, nFeatures, 1)
	}

	k := len(fc.ClassLabels)
	probas := mat.NewDense(nSamples, k, nil)
	row := make([]float64, nFeatures)
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		votes := fc.forest.Vote(row)
		for c := 0; c < k && c < len(votes); c++ {
			probas.Set(i, c, votes[c])
		}
	}
	return probas, nil
}

// Predict returns the class with the largest vote fraction per sample.
func (fc *ForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := fc.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, k := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		best, bestProb := 0, probas.At(i, 0)
		for c := 1; c < k; c++ {
			if probas.At(i, c) > bestProb {
				best, bestProb = c, probas.At(i, c)
			}
		}
		predictions.Set(i, 0, float64(fc.ClassLabels[best]))
	}
	return predictions, nil
}

// Classes returns the labels seen during fitting, sorted.
func (fc *ForestClassifier) Classes() []int {
	return fc.ClassLabels
}

// Score returns the mean accuracy on the given test data and labels.
func (fc *ForestClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := fc.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, predictions)
}

// FeatureImportances returns the per-feature importance reported by the
// forest, in column order.
func (fc *ForestClassifier) FeatureImportances() ([]float64, error) {
	if !fc.IsFitted() {
		return nil, errors.NewNotFittedError("ForestClassifier", "FeatureImportances")
	}
	return fc.forest.FeatureImportance, nil
}
