package resolver

import (
	"os"

	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/errors"
	"github.com/zwavetools/zwconf/pkg/jsontext"
)

// TemplateCache holds the parsed (not yet import-expanded) top-level
// object of every file touched during one resolution run.
//
// A cache belongs to exactly one run: it is created by [New] and never
// shared, so batch processing many devices with independent resolvers
// cannot cross-contaminate. Entries are never evicted within a run, which
// guarantees each file is read and parsed at most once no matter how many
// times it is referenced.
type TemplateCache struct {
	files map[string]document.Object
	loads int
	hits  int
}

// NewTemplateCache creates an empty per-run cache.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{files: make(map[string]document.Object)}
}

// Load returns the parsed top-level object of the file at path, reading
// and parsing it on first use. A missing file is TEMPLATE_NOT_FOUND;
// malformed content surfaces as the reader's PARSE_ERROR.
func (c *TemplateCache) Load(path string) (document.Object, error) {
	if obj, ok := c.files[path]; ok {
		c.hits++
		return obj, nil
	}

	obj, err := jsontext.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeTemplateNotFound, "template file not found: %s", path)
		}
		return nil, err
	}

	c.files[path] = obj
	c.loads++
	return obj, nil
}

// Loads returns the number of files read from disk.
func (c *TemplateCache) Loads() int { return c.loads }

// Hits returns the number of lookups served from memory.
func (c *TemplateCache) Hits() int { return c.hits }
