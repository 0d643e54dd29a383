package eval

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fieldvision/groundcover/composition"
	"github.com/fieldvision/groundcover/pkg/errors"
)

// FromProbaMatrix converts an n x k class-probability matrix, as
// returned by PredictProba, into composition vectors. classNames must
// list the k classes in the column order the model reports (sorted
// label order for the classifiers in this module).
func FromProbaMatrix(probas mat.Matrix, classNames []string) ([]composition.Vector, error) {
	n, k := probas.Dims()
	if k != len(classNames) {
		return nil, errors.NewDimensionError("FromProbaMatrix", len(classNames), k, 1)
	}

	out := make([]composition.Vector, n)
	for i := 0; i < n; i++ {
		v := make(composition.Vector, k)
		for j, class := range classNames {
			v[class] = probas.At(i, j)
		}
		out[i] = v
	}
	return out, nil
}
