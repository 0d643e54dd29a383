// Package eval turns parallel observed/predicted cover compositions
// into per-class errors, a pooled RMSE, and a long-form dataset for
// scatter and ternary plotting.
package eval

import (
	"math"

	"github.com/fieldvision/groundcover/composition"
	"github.com/fieldvision/groundcover/pkg/errors"
)

// ErrorRecord holds the observed and predicted fraction of one class
// for one sample, with its squared error. Records live for one
// evaluation run; nothing here is persisted.
type ErrorRecord struct {
	SampleID     int
	Class        string
	Observed     float64
	Predicted    float64
	SquaredError float64
}

// RecordType tags a long-form row as an observed or predicted value.
type RecordType string

const (
	Observed  RecordType = "observed"
	Predicted RecordType = "predicted"
)

// LongRecord is one row of the long-form dataset consumed by the
// plotting layer: one fraction, tagged by sample, class and type.
type LongRecord struct {
	SampleID int
	Class    string
	Type     RecordType
	Fraction float64
}

// EvaluationResult bundles the pooled RMSE with the full record set so
// callers can both report the metric and build plots from one pass.
type EvaluationResult struct {
	RMSE    float64
	Records []ErrorRecord
}

// ComputeErrors pairs observed and predicted compositions by index and
// produces one ErrorRecord per (sample, class). The sequences must have
// the same length and every pair must hold exactly the same class set;
// any mismatch fails with a ValidationError. Classes within a sample
// are emitted in sorted order so output is deterministic.
func ComputeErrors(observed, predicted []composition.Vector) ([]ErrorRecord, error) {
	if len(observed) != len(predicted) {
		return nil, errors.NewValidationError("ComputeErrors",
			"observed and predicted must have the same length",
			[]int{len(observed), len(predicted)})
	}

	records := make([]ErrorRecord, 0, len(observed)*3)
	for i := range observed {
		if !observed[i].SameClasses(predicted[i]) {
			return nil, errors.NewValidationError("ComputeErrors",
				"class sets differ between observed and predicted", i)
		}
		for _, class := range observed[i].Classes() {
			obs := observed[i][class]
			pred := predicted[i][class]
			diff := pred - obs
			records = append(records, ErrorRecord{
				SampleID:     i,
				Class:        class,
				Observed:     obs,
				Predicted:    pred,
				SquaredError: diff * diff,
			})
		}
	}
	return records, nil
}

// AggregateRMSE pools every (sample, class) squared error into one flat
// collection and returns sqrt of its mean. Pooling weights classes by
// how often they occur, not equally per class. An empty input fails
// with an EmptyInputError rather than reporting a spurious zero.
func AggregateRMSE(records []ErrorRecord) (float64, error) {
	if len(records) == 0 {
		return 0, errors.NewEmptyInputError("AggregateRMSE")
	}
	var sum float64
	for _, r := range records {
		sum += r.SquaredError
	}
	return math.Sqrt(sum / float64(len(records))), nil
}

// ToLongForm reshapes the record set for plotting: per sample, one row
// per class per type, observed rows before predicted rows within each
// sample, input order otherwise preserved. For k classes this yields
// 2k rows per sample. Pure reshaping, no numeric computation.
func ToLongForm(records []ErrorRecord) []LongRecord {
	long := make([]LongRecord, 0, 2*len(records))

	start := 0
	for start < len(records) {
		end := start
		for end < len(records) && records[end].SampleID == records[start].SampleID {
			end++
		}
		for _, r := range records[start:end] {
			long = append(long, LongRecord{
				SampleID: r.SampleID,
				Class:    r.Class,
				Type:     Observed,
				Fraction: r.Observed,
			})
		}
		for _, r := range records[start:end] {
			long = append(long, LongRecord{
				SampleID: r.SampleID,
				Class:    r.Class,
				Type:     Predicted,
				Fraction: r.Predicted,
			})
		}
		start = end
	}
	return long
}

// Evaluate runs ComputeErrors and AggregateRMSE in one call, retaining
// the records for plotting.
func Evaluate(observed, predicted []composition.Vector) (*EvaluationResult, error) {
	records, err := ComputeErrors(observed, predicted)
	if err != nil {
		return nil, err
	}
	rmse, err := AggregateRMSE(records)
	if err != nil {
		return nil, err
	}
	return &EvaluationResult{RMSE: rmse, Records: records}, nil
}
