package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is the contract the evaluation pipeline expects from a
// cover-class model: fit on labeled pixels, then emit per-class
// probability rows that sum to 1 after any caller-side normalization.
type Classifier interface {
	// Fit trains the model on features X and integer class labels y
	// (an n x 1 matrix).
	Fit(X, y mat.Matrix) error

	// Predict returns the most probable class label per sample as an
	// n x 1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)

	// PredictProba returns an n x k matrix of class probabilities in
	// the order reported by Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the class labels seen during fitting, sorted.
	Classes() []int
}

// Transformer is the contract for fitted preprocessing steps.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is implemented by models that report an aggregate quality
// score on held-out data.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Persistable is implemented by estimators that can round-trip through
// durable storage under a caller-chosen filename.
type Persistable interface {
	Save(path string) error
	Load(path string) error
}
