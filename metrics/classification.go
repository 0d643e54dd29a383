package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fieldvision/groundcover/pkg/errors"
)

// Accuracy computes the fraction of samples whose predicted hard label
// matches the true label. Inputs are n x 1 label matrices.
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	rt, ct := yTrue.Dims()
	rp, cp := yPred.Dims()
	if rt == 0 {
		return 0, errors.NewEmptyInputError("Accuracy")
	}
	if ct != 1 || cp != 1 {
		return 0, errors.NewValueError("Accuracy", "labels must be column vectors (n x 1)")
	}
	if rt != rp {
		return 0, errors.NewDimensionError("Accuracy", rt, rp, 0)
	}

	correct := 0
	for i := 0; i < rt; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(rt), nil
}

// ConfusionMatrix builds a k x k count matrix over the given class
// labels, rows indexed by true class and columns by predicted class.
// Labels outside classes fail with a ValueError.
func ConfusionMatrix(yTrue, yPred mat.Matrix, classes []int) (*mat.Dense, error) {
	rt, _ := yTrue.Dims()
	rp, _ := yPred.Dims()
	if rt == 0 {
		return nil, errors.NewEmptyInputError("ConfusionMatrix")
	}
	if rt != rp {
		return nil, errors.NewDimensionError("ConfusionMatrix", rt, rp, 0)
	}

	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	cm := mat.NewDense(len(classes), len(classes), nil)
	for i := 0; i < rt; i++ {
		ti, ok := index[int(yTrue.At(i, 0))]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "true label outside class set")
		}
		pi, ok := index[int(yPred.At(i, 0))]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "predicted label outside class set")
		}
		cm.Set(ti, pi, cm.At(ti, pi)+1)
	}
	return cm, nil
}
