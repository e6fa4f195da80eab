package jsontext

import (
	"os"

	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/errors"
)

// Parse strips // comments from data and decodes the remaining strict
// JSON into the document value model. Malformed JSON surfaces as a
// PARSE_ERROR wrapping the underlying json error.
func Parse(data []byte) (any, error) {
	stripped := StripComments(string(data))
	value, err := document.Decode([]byte(stripped))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid JSON")
	}
	return value, nil
}

// ParseObject is Parse restricted to a top-level object, which every
// device configuration and template file must be.
func ParseObject(data []byte) (document.Object, error) {
	stripped := StripComments(string(data))
	obj, err := document.DecodeObject([]byte(stripped))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid JSON")
	}
	return obj, nil
}

// ReadFile reads a JSONC file from disk and parses it into a top-level
// object. The path is included in parse errors so a failure deep inside
// a template chain still names the offending file.
func ReadFile(path string) (document.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	obj, err := ParseObject(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parsing %s", path)
	}
	return obj, nil
}
