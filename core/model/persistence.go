package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/fieldvision/groundcover/pkg/errors"
)

// SaveModel writes an estimator to path with gob. The surrounding
// workflow keys artifacts by fixed filenames (a trained model and a
// fitted scaler) so they can be reloaded for inference on new imagery.
func SaveModel(model interface{}, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer file.Close()

	if err := SaveModelToWriter(model, file); err != nil {
		return errors.Wrapf(err, "failed to save model to %s", path)
	}
	return nil
}

// LoadModel reads an estimator previously written by SaveModel into
// model, which must be a pointer to the matching concrete type.
func LoadModel(model interface{}, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	if err := LoadModelFromReader(model, file); err != nil {
		return errors.Wrapf(err, "failed to load model from %s", path)
	}
	return nil
}

// SaveModelToWriter gob-encodes an estimator to w.
func SaveModelToWriter(model interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader gob-decodes an estimator from r.
func LoadModelFromReader(model interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
