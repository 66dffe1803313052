package vectorstore

// Document represents a document to be stored in the vector index.
type Document struct {
	// ID uniquely identifies the document within its collection.
	// Re-adding a document with the same id overwrites the prior copy.
	ID string

	// Content is the text that gets embedded and returned on search.
	Content string

	// Metadata holds searchable attributes of the document.
	Metadata map[string]any
}

// SearchResult represents a document returned from a similarity search.
type SearchResult struct {
	Document

	// Score is the similarity to the query in [0, 1], higher is closer.
	Score float32
}
