package resolver

import (
	"path/filepath"
	"strings"

	"github.com/zwavetools/zwconf/pkg/errors"
)

// ImportKey is the reserved object key that marks an import reference.
const ImportKey = "$import"

// Reference is a parsed $import value of the form "[path]#key".
type Reference struct {
	// Path locates the template file. Empty means the current file,
	// a "~/" prefix is relative to the base directory, anything else
	// is relative to the current file's directory.
	Path string

	// Key names a top-level entry in the template file.
	Key string
}

// ParseReference splits an $import value into its path and key parts.
// The '#' separator is mandatory; everything after the first '#' is the
// key, so keys may themselves contain '#'.
func ParseReference(s string) (Reference, error) {
	path, key, ok := strings.Cut(s, "#")
	if !ok {
		return Reference{}, errors.New(errors.ErrCodeImportSyntax, "import reference must contain '#': %q", s)
	}
	return Reference{Path: path, Key: key}, nil
}

// templateFile resolves the reference's path part against the current
// file and the base directory, returning a cleaned absolute-or-relative
// file path suitable for cache keying.
func (r Reference) templateFile(currentFile, baseDir string) string {
	switch {
	case r.Path == "":
		return filepath.Clean(currentFile)
	case strings.HasPrefix(r.Path, "~/"):
		return filepath.Clean(filepath.Join(baseDir, r.Path[2:]))
	default:
		return filepath.Clean(filepath.Join(filepath.Dir(currentFile), r.Path))
	}
}
