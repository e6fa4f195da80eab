package reconcile

import (
	"os"
	"path/filepath"

	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/errors"
)

// LoadArtifact reads a previously written resolved artifact. The second
// return is false when no artifact exists at path, which is not an
// error. Artifacts are strict JSON (comments never survive resolution).
func LoadArtifact(path string) (document.Object, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	obj, err := document.DecodeObject(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeParse, err, "parsing existing artifact %s", path)
	}
	return obj, true, nil
}

// WriteArtifact persists doc at path as pretty-printed JSON (2-space
// indentation, trailing newline), creating parent directories as needed.
func WriteArtifact(path string, doc document.Object) error {
	data, err := document.Encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
