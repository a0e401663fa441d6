package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned by Decode when the byte stream is not a
// JSON object at all. Missing, null, or mistyped known fields never cause
// this error; they are absorbed by per-field defaulting.
var ErrMalformedPayload = errors.New("malformed payload")

// Decode deserializes a dataset payload into a Document using field-level
// defensive defaults. Every known field is read with a typed extraction
// that substitutes the documented default on absence or type mismatch, so
// one bad field never invalidates its siblings or the enclosing object.
// Unknown fields are ignored. Nested array elements are never dropped:
// an element of the wrong shape decodes to an entry with every field
// defaulted.
//
// Decode is a pure transform and is safe to call concurrently.
func Decode(data []byte) (Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	// A literal null root unmarshals into a nil map without error.
	if root == nil {
		return Document{}, fmt.Errorf("%w: null document", ErrMalformedPayload)
	}

	doc := Document{Categories: []Category{}}
	doc.UpdatedAt, _ = stringField(root, "last-updated", "")

	rows, _ := arrayField(root, "rows")
	for _, raw := range rows {
		doc.Categories = append(doc.Categories, decodeCategory(raw))
	}
	return doc, nil
}

func decodeCategory(raw json.RawMessage) Category {
	fields := objectValue(raw)

	cat := Category{Items: []Item{}}
	cat.Title, _ = stringField(fields, "title", DefaultCategoryTitle)

	movies, _ := arrayField(fields, "movies")
	for _, m := range movies {
		cat.Items = append(cat.Items, decodeItem(m))
	}
	return cat
}

func decodeItem(raw json.RawMessage) Item {
	fields := objectValue(raw)

	var it Item
	it.Title, _ = stringField(fields, "title", DefaultItemTitle)

	ref, _ := stringField(fields, "image_url", "")
	it.ImageRef = CleanImageRef(ref)
	return it
}

// stringField reads a string field from a decoded object, substituting def
// when the field is absent, null, or not a string. The second return value
// reports whether the default was used.
func stringField(fields map[string]json.RawMessage, key, def string) (string, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return def, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def, true
	}
	return s, false
}

// isNull reports whether raw is the literal null value, which unmarshals
// into string and slice targets without error and without touching them.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// arrayField reads an array field, substituting the empty sequence when the
// field is absent, null, or not an array.
func arrayField(fields map[string]json.RawMessage, key string) ([]json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil, true
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, true
	}
	return arr, false
}

// objectValue decodes raw as a JSON object, returning nil (every field
// defaults) when it is anything else.
func objectValue(raw json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}
