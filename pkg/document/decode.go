package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses strict JSON into the document value model.
// Object keys keep their file order and numbers decode as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	// Reject trailing content after the top-level value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return value, nil
}

// DecodeObject parses strict JSON and requires a top-level object.
func DecodeObject(data []byte) (Object, error) {
	value, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(Object)
	if !ok {
		return nil, fmt.Errorf("top-level JSON value is %s, expected an object", kindName(value))
	}
	return obj, nil
}

// decodeValue reads one complete JSON value from the token stream.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

// decodeFromToken builds a value starting at an already-read token.
func decodeFromToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	default:
		// bool, json.Number, string, or nil.
		return tok, nil
	}
}

// decodeObject consumes members until the matching '}'.
// The opening '{' has already been read.
func decodeObject(dec *json.Decoder) (Object, error) {
	obj := Object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

// decodeArray consumes elements until the matching ']'.
// The opening '[' has already been read.
func decodeArray(dec *json.Decoder) (Array, error) {
	arr := Array{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// kindName names a document value kind for error messages.
func kindName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case Object:
		return "an object"
	case Array:
		return "an array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
