package domain

// SearchResult is the ordered sequence of documents matching a query.
// Order and ranking are determined by the remote service.
type SearchResult []Document

// Len returns the number of matched documents.
func (r SearchResult) Len() int {
	return len(r)
}

// IsEmpty returns true if nothing matched.
func (r SearchResult) IsEmpty() bool {
	return len(r) == 0
}
