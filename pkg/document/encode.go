package document

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON encodes the object with members in insertion order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode serializes v as pretty-printed JSON with 2-space indentation
// and a trailing newline. This is the on-disk artifact format.
func Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// EncodeCompact serializes v on a single line, for diff display and
// cache keys.
func EncodeCompact(v any) ([]byte, error) {
	return json.Marshal(v)
}
