package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zwavetools/zwconf/pkg/errors"
	"github.com/zwavetools/zwconf/pkg/jsontext"
)

// Manufacturer is one entry from the manufacturers index file.
type Manufacturer struct {
	ID   string // hex ID, e.g. "0x027a"
	Name string // display name, e.g. "Zooz"
}

// Locator maps logical device identifiers (manufacturer ID + device
// name) onto the filesystem layout of the configuration tree:
//
//	<devicesDir>/<manufacturerID>/<device>.json
//
// It also reads the manufacturers index for interactive search.
type Locator struct {
	devicesDir        string
	manufacturersFile string
}

// NewLocator creates a locator rooted at devicesDir.
// manufacturersFile may be empty when manufacturer search is not needed.
func NewLocator(devicesDir, manufacturersFile string) *Locator {
	return &Locator{devicesDir: devicesDir, manufacturersFile: manufacturersFile}
}

// DevicesDir returns the root of the device configuration tree, which is
// also the base directory for "~/" import paths.
func (l *Locator) DevicesDir() string { return l.devicesDir }

// DevicePath returns the path of a device configuration file, appending
// the .json extension when name lacks it. Missing files are
// DEVICE_NOT_FOUND.
func (l *Locator) DevicePath(manufacturerID, name string) (string, error) {
	if err := errors.ValidateManufacturerID(manufacturerID); err != nil {
		return "", err
	}
	if err := errors.ValidateDeviceFilename(name); err != nil {
		return "", err
	}

	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	path := filepath.Join(l.devicesDir, manufacturerID, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeDeviceNotFound, "device file not found: %s", path)
		}
		return "", err
	}
	return path, nil
}

// ArtifactPath returns where the resolved artifact for a device belongs
// under outputDir, mirroring the manufacturer grouping of the source
// tree. The device name gets its .json extension appended when missing.
func (l *Locator) ArtifactPath(outputDir, manufacturerID, name string) string {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(outputDir, manufacturerID, name)
}

// ListDevices returns the sorted basenames of all .json files in a
// manufacturer's directory. A missing directory is
// MANUFACTURER_NOT_FOUND.
func (l *Locator) ListDevices(manufacturerID string) ([]string, error) {
	if err := errors.ValidateManufacturerID(manufacturerID); err != nil {
		return nil, err
	}

	dir := filepath.Join(l.devicesDir, manufacturerID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeManufacturerNotFound, "manufacturer directory not found: %s", dir)
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Manufacturers loads the manufacturers index: a JSONC object mapping
// hex IDs to display names. Entries keep the file's order.
func (l *Locator) Manufacturers() ([]Manufacturer, error) {
	if l.manufacturersFile == "" {
		return nil, errors.New(errors.ErrCodeInternal, "no manufacturers file configured")
	}

	obj, err := jsontext.ReadFile(l.manufacturersFile)
	if err != nil {
		return nil, err
	}

	list := make([]Manufacturer, 0, obj.Len())
	for _, m := range obj {
		name, ok := m.Value.(string)
		if !ok {
			continue
		}
		list = append(list, Manufacturer{ID: m.Key, Name: name})
	}
	return list, nil
}

// SearchManufacturers returns manufacturers whose name contains query,
// case-insensitively. A query that is itself a hex ID ("0x...") matches
// by ID so scripted callers can skip the name search.
func (l *Locator) SearchManufacturers(query string) ([]Manufacturer, error) {
	all, err := l.Manufacturers()
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(strings.ToLower(query), "0x") {
		for _, m := range all {
			if strings.EqualFold(m.ID, query) {
				return []Manufacturer{m}, nil
			}
		}
		return nil, nil
	}

	needle := strings.ToLower(query)
	var matches []Manufacturer
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}
