package catalog

import "encoding/json"

// Parse deserializes a dataset payload with a generic untyped walk. It
// never fails: a byte stream that is not a JSON object yields an empty
// Document, and array elements that are not objects are dropped rather
// than failing the whole document. This is the intended divergence from
// Decode, which defends scalar fields but never drops elements.
//
// A category is never dropped for ending up with zero surviving items.
func Parse(data []byte) Document {
	doc := Document{Categories: []Category{}}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return doc
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return doc
	}

	doc.UpdatedAt = stringValue(obj["last-updated"], "")

	rows, _ := obj["rows"].([]any)
	for _, row := range rows {
		cat, ok := parseCategory(row)
		if !ok {
			continue
		}
		doc.Categories = append(doc.Categories, cat)
	}
	return doc
}

func parseCategory(v any) (Category, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Category{}, false
	}

	cat := Category{
		Title: stringValue(obj["title"], DefaultCategoryTitle),
		Items: []Item{},
	}

	movies, _ := obj["movies"].([]any)
	for _, m := range movies {
		it, ok := parseItem(m)
		if !ok {
			continue
		}
		cat.Items = append(cat.Items, it)
	}
	return cat, true
}

// parseItem constructs an Item from a generic value. Once the value is an
// object this always succeeds: items are only ever dropped for not being
// an object at all, never for missing fields.
func parseItem(v any) (Item, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Item{}, false
	}
	return Item{
		Title:    stringValue(obj["title"], DefaultItemTitle),
		ImageRef: CleanImageRef(stringValue(obj["image_url"], "")),
	}, true
}

// stringValue extracts a string from a generic JSON value, substituting
// def for null or non-string values.
func stringValue(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}
