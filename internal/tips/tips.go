// Package tips loads the design tips document from disk.
//
// The document is opaque JSON. It is read fresh on every call and never cached,
// so edits to the file show up on the next request.
package tips

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads the file at path, decodes it from charset and parses exactly one
// JSON value. Numbers keep their textual form as json.Number.
func Load(path, charset string) (any, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	data, err = decodeToUTF8(data, charset)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse parses a single JSON value from data and rejects anything but
// whitespace after it.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("invalid data after top-level value: %v", tok)
}

// readAll opens path, reads it fully and closes it before returning
func readAll(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Describe reports the JSON kind of doc and, for objects and arrays, the
// number of entries.
func Describe(doc any) (kind string, entries int) {
	switch v := doc.(type) {
	case map[string]any:
		return "object", len(v)
	case []any:
		return "array", len(v)
	case string:
		return "string", 0
	case json.Number, float64:
		return "number", 0
	case bool:
		return "bool", 0
	case nil:
		return "null", 0
	default:
		return fmt.Sprintf("%T", v), 0
	}
}
