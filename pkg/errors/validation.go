package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// manufacturerIDRegex matches hexadecimal manufacturer IDs as used by the
// device configuration tree, e.g. "0x027a".
var manufacturerIDRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,4}$`)

// ValidateManufacturerID validates a manufacturer ID string.
// IDs are directory names under the devices tree, so the check doubles as
// a path-safety guard.
func ValidateManufacturerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "manufacturer ID cannot be empty")
	}
	if !manufacturerIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid manufacturer ID: %q (expected hex ID like 0x027a)", id)
	}
	return nil
}

// ValidateDeviceFilename validates a device configuration filename.
// It ensures the name is a simple basename without path components, so a
// crafted name cannot escape the manufacturer directory.
func ValidateDeviceFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "device filename cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "device filename too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "device filename contains control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "device filename cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "device filename cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "device filename cannot be a hidden file")
	}

	return nil
}
