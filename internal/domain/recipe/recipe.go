// Package recipe holds the document model owned by the recipe store. The
// retrieval engine only ever reads these records.
package recipe

// Document is an opaque content-addressed recipe chunk.
type Document struct {
	id       string
	content  string
	metadata map[string]string
}

// NewDocument creates a recipe document.
func NewDocument(id, content string, metadata map[string]string) Document {
	return Document{id: id, content: content, metadata: metadata}
}

// ID returns the unique document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the text body.
func (d *Document) Content() string { return d.content }

// Metadata returns the attribute mapping.
func (d *Document) Metadata() map[string]string { return d.metadata }

// Hit pairs a document with the relevance score the store assigned it.
type Hit struct {
	Document Document
	Score    float64
}
