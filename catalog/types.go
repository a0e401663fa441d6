// Package catalog defines the typed movie catalogue model and two decoding
// strategies for the dataset wire format: a strict decoder that substitutes
// documented defaults for missing or mistyped fields, and a permissive
// parser that never fails and drops structurally wrong entries instead.
package catalog

// Default values substituted when a known field is absent, null, or of the
// wrong type.
const (
	DefaultCategoryTitle = "Category"
	DefaultItemTitle     = "Movie Title"
)

// Document is the root of a decoded catalogue. It is immutable value data:
// constructed once per decode call and owned by the caller.
type Document struct {
	UpdatedAt  string
	Categories []Category
}

// Category is a titled row of movies. A category with zero items is valid
// and is rendered as an empty row, never dropped.
type Category struct {
	Title string
	Items []Item
}

// Item is a single movie entry. ImageRef is the normalized remote image
// reference, empty when the source field was absent or unusable.
type Item struct {
	Title    string
	ImageRef string
}

// IdentityKey returns a deterministic key derived from the item's fields.
// It is NOT unique across a document: duplicate titles and URLs are
// expected, and consumers must use positional indexing where uniqueness
// matters.
func (it Item) IdentityKey() string {
	return it.Title + "|" + it.ImageRef
}
