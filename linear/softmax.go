// Package linear implements the regularized multinomial regression used
// to estimate cover-class probabilities from pixel predictors.
package linear

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/fieldvision/groundcover/core/model"
	"github.com/fieldvision/groundcover/metrics"
	"github.com/fieldvision/groundcover/pkg/errors"
)

// SoftmaxRegression is an L2-regularized multinomial logistic
// regression fitted by batch gradient descent with a decaying step
// size. PredictProba rows are softmax outputs and sum to 1, which is
// what the compositional evaluator consumes.
type SoftmaxRegression struct {
	model.BaseEstimator

	// Hyperparameters
	c           float64 // inverse regularization strength
	maxIter     int
	tol         float64
	randomState uint64

	// Learned parameters
	Coef        [][]float64 // k x p weight rows, one per class
	Intercept   []float64
	ClassLabels []int
	NFeatures   int
	NIter       int
}

// Option configures a SoftmaxRegression.
type Option func(*SoftmaxRegression)

// WithC sets the inverse regularization strength (default 1.0).
func WithC(c float64) Option {
	return func(sr *SoftmaxRegression) {
		sr.c = c
	}
}

// WithMaxIter sets the iteration budget (default 200).
func WithMaxIter(maxIter int) Option {
	return func(sr *SoftmaxRegression) {
		sr.maxIter = maxIter
	}
}

// WithTol sets the gradient-norm stopping tolerance (default 1e-4).
func WithTol(tol float64) Option {
	return func(sr *SoftmaxRegression) {
		sr.tol = tol
	}
}

// WithRandomState sets the seed for weight initialization. Fits with
// the same seed and data are reproducible.
func WithRandomState(seed uint64) Option {
	return func(sr *SoftmaxRegression) {
		sr.randomState = seed
	}
}

// NewSoftmaxRegression creates a classifier with the given options.
func NewSoftmaxRegression(opts ...Option) *SoftmaxRegression {
	sr := &SoftmaxRegression{
		c:           1.0,
		maxIter:     200,
		tol:         1e-4,
		randomState: 42,
	}
	for _, opt := range opts {
		opt(sr)
	}
	return sr
}

// Fit trains on features X and integer labels y (n x 1).
func (sr *SoftmaxRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("SoftmaxRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("SoftmaxRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("SoftmaxRegression.Fit", "y must be a column vector (n x 1)")
	}

	sr.extractClasses(y)
	if len(sr.ClassLabels) < 2 {
		return errors.NewValueError("SoftmaxRegression.Fit", "need at least 2 classes")
	}
	sr.NFeatures = nFeatures

	k := len(sr.ClassLabels)
	classIndex := make(map[int]int, k)
	for i, c := range sr.ClassLabels {
		classIndex[c] = i
	}

	// One-hot targets.
	target := make([][]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		target[i] = make([]float64, k)
		target[i][classIndex[int(y.At(i, 0))]] = 1.0
	}

	r := rand.New(rand.NewPCG(sr.randomState, sr.randomState))
	sr.Coef = make([][]float64, k)
	for c := range sr.Coef {
		sr.Coef[c] = make([]float64, nFeatures)
		for j := range sr.Coef[c] {
			sr.Coef[c][j] = r.NormFloat64() * 0.01
		}
	}
	sr.Intercept = make([]float64, k)

	lambda := 1.0 / sr.c
	baseLearningRate := 1.0
	converged := false

	probs := make([]float64, k)
	gradW := make([][]float64, k)
	for c := range gradW {
		gradW[c] = make([]float64, nFeatures)
	}
	gradB := make([]float64, k)

	for iter := 0; iter < sr.maxIter; iter++ {
		for c := 0; c < k; c++ {
			for j := 0; j < nFeatures; j++ {
				gradW[c][j] = 0
			}
			gradB[c] = 0
		}

		for i := 0; i < nSamples; i++ {
			sr.softmaxRow(X, i, probs)
			for c := 0; c < k; c++ {
				residual := probs[c] - target[i][c]
				gradB[c] += residual
				for j := 0; j < nFeatures; j++ {
					gradW[c][j] += residual * X.At(i, j)
				}
			}
		}

		maxGrad := 0.0
		for c := 0; c < k; c++ {
			gradB[c] /= float64(nSamples)
			if math.Abs(gradB[c]) > maxGrad {
				maxGrad = math.Abs(gradB[c])
			}
			for j := 0; j < nFeatures; j++ {
				gradW[c][j] = gradW[c][j]/float64(nSamples) + lambda*sr.Coef[c][j]
				if math.Abs(gradW[c][j]) > maxGrad {
					maxGrad = math.Abs(gradW[c][j])
				}
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for c := 0; c < k; c++ {
			sr.Intercept[c] -= learningRate * gradB[c]
			for j := 0; j < nFeatures; j++ {
				sr.Coef[c][j] -= learningRate * gradW[c][j]
			}
		}

		sr.NIter = iter + 1
		if maxGrad < sr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("SoftmaxRegression", sr.NIter, ""))
	}

	sr.SetFitted()
	return nil
}

// softmaxRow fills probs with the class probabilities of sample i,
// using the max-shift trick for numerical stability.
func (sr *SoftmaxRegression) softmaxRow(X mat.Matrix, i int, probs []float64) {
	maxScore := math.Inf(-1)
	for c := range sr.Coef {
		score := sr.Intercept[c]
		for j := 0; j < sr.NFeatures; j++ {
			score += X.At(i, j) * sr.Coef[c][j]
		}
		probs[c] = score
		if score > maxScore {
			maxScore = score
		}
	}
	sum := 0.0
	for c := range probs {
		probs[c] = math.Exp(probs[c] - maxScore)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
}

// extractClasses records the sorted unique labels in y.
func (sr *SoftmaxRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}
	sr.ClassLabels = make([]int, 0, len(seen))
	for c := range seen {
		sr.ClassLabels = append(sr.ClassLabels, c)
	}
	sort.Ints(sr.ClassLabels)
}

// PredictProba returns an n x k matrix of class probabilities.
func (sr *SoftmaxRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SoftmaxRegression", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != sr.NFeatures {
		return nil, errors.NewDimensionError("SoftmaxRegression.PredictProba", sr.NFeatures, nFeatures, 1)
	}

	k := len(sr.ClassLabels)
	probas := mat.NewDense(nSamples, k, nil)
	probs := make([]float64, k)
	for i := 0; i < nSamples; i++ {
		sr.softmaxRow(X, i, probs)
		probas.SetRow(i, probs)
	}
	return probas, nil
}

// Predict returns the most probable class label per sample.
func (sr *SoftmaxRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := sr.PredictProba(X)
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
		predictions.Set(i, 0, float64(sr.ClassLabels[best]))
	}
	return predictions, nil
}

// Classes returns the labels seen during fitting, sorted.
func (sr *SoftmaxRegression) Classes() []int {
	return sr.ClassLabels
}

// Score returns the mean accuracy on the given test data and labels.
func (sr *SoftmaxRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := sr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, predictions)
}

// GetParams returns the hyperparameters.
func (sr *SoftmaxRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":            sr.c,
		"max_iter":     sr.maxIter,
		"tol":          sr.tol,
		"random_state": sr.randomState,
	}
}

// Save writes the fitted model to path.
func (sr *SoftmaxRegression) Save(path string) error {
	if !sr.IsFitted() {
		return errors.NewNotFittedError("SoftmaxRegression", "Save")
	}
	return model.SaveModel(sr, path)
}

// Load reads a fitted model from path.
func (sr *SoftmaxRegression) Load(path string) error {
	if err := model.LoadModel(sr, path); err != nil {
		return err
	}
	sr.SetFitted()
	return nil
}
