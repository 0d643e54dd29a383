package linear

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fieldvision/groundcover/pkg/errors"
)

// threeClusters builds a clearly separated 3-class problem: one cluster
// per cover class in 2D feature space.
func threeClusters(n int, seed uint64) (*mat.Dense, *mat.Dense) {
	centers := [][]float64{{0, 0}, {6, 0}, {0, 6}}
	r := rand.New(rand.NewPCG(seed, seed))

	X := mat.NewDense(3*n, 2, nil)
	y := mat.NewDense(3*n, 1, nil)
	for c, center := range centers {
		for i := 0; i < n; i++ {
			row := c*n + i
			X.Set(row, 0, center[0]+r.NormFloat64()*0.5)
			X.Set(row, 1, center[1]+r.NormFloat64()*0.5)
			y.Set(row, 0, float64(c))
		}
	}
	return X, y
}

func TestSoftmaxRegressionFitPredict(t *testing.T) {
	X, y := threeClusters(30, 1)

	clf := NewSoftmaxRegression(WithC(10), WithMaxIter(300), WithRandomState(1))
	require.NoError(t, clf.Fit(X, y))

	assert.Equal(t, []int{0, 1, 2}, clf.Classes())

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9, "training accuracy on separated clusters")
}

func TestSoftmaxRegressionPredictProbaRowsSumToOne(t *testing.T) {
	X, y := threeClusters(20, 2)

	clf := NewSoftmaxRegression(WithRandomState(2))
	require.NoError(t, clf.Fit(X, y))

	probas, err := clf.PredictProba(X)
	require.NoError(t, err)

	n, k := probas.Dims()
	require.Equal(t, 60, n)
	require.Equal(t, 3, k)
	for i := 0; i < n; i++ {
		sum := 0.0
		for c := 0; c < k; c++ {
			p := probas.At(i, c)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d", i)
	}
}

func TestSoftmaxRegressionReproducible(t *testing.T) {
	X, y := threeClusters(15, 3)

	a := NewSoftmaxRegression(WithRandomState(7), WithMaxIter(50))
	b := NewSoftmaxRegression(WithRandomState(7), WithMaxIter(50))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.Coef, b.Coef)
	assert.Equal(t, a.Intercept, b.Intercept)
}

func TestSoftmaxRegressionValidation(t *testing.T) {
	clf := NewSoftmaxRegression()

	_, err := clf.Predict(mat.NewDense(1, 2, []float64{0, 0}))
	require.Error(t, err)
	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr))

	// Row mismatch between X and y.
	err = clf.Fit(mat.NewDense(3, 2, nil), mat.NewDense(2, 1, nil))
	assert.Error(t, err)

	// y must be a column vector.
	err = clf.Fit(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	assert.Error(t, err)

	// Single class cannot be fitted.
	err = clf.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{0, 0}))
	assert.Error(t, err)
}

func TestSoftmaxRegressionFeatureMismatch(t *testing.T) {
	X, y := threeClusters(10, 4)
	clf := NewSoftmaxRegression(WithRandomState(4), WithMaxIter(50))
	require.NoError(t, clf.Fit(X, y))

	_, err := clf.PredictProba(mat.NewDense(1, 3, []float64{0, 0, 0}))
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestSoftmaxRegressionSaveLoad(t *testing.T) {
	X, y := threeClusters(15, 5)
	clf := NewSoftmaxRegression(WithRandomState(5), WithMaxIter(100))
	require.NoError(t, clf.Fit(X, y))

	path := filepath.Join(t.TempDir(), "softmax.gob")
	require.NoError(t, clf.Save(path))

	loaded := &SoftmaxRegression{}
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, clf.Coef, loaded.Coef)
	assert.Equal(t, clf.ClassLabels, loaded.ClassLabels)

	a, err := clf.PredictProba(X)
	require.NoError(t, err)
	b, err := loaded.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(a, b, 1e-12))
}

func TestSoftmaxRegressionConvergenceWarning(t *testing.T) {
	X, y := threeClusters(10, 6)

	var warned error
	errors.SetWarningHandler(func(w error) { warned = w })
	defer errors.SetWarningHandler(nil)

	// One iteration cannot reach the tolerance.
	clf := NewSoftmaxRegression(WithMaxIter(1), WithRandomState(6))
	require.NoError(t, clf.Fit(X, y))

	require.Error(t, warned)
	var cw *errors.ConvergenceWarning
	assert.True(t, errors.As(warned, &cw))
	assert.Equal(t, "SoftmaxRegression", cw.Algorithm)
}
