package domain

import "strings"

// FilterDocuments keeps the documents whose title or content contains query,
// case-insensitively. Order is preserved.
func FilterDocuments(docs []Document, query string) []Document {
	q := strings.ToLower(query)
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Title), q) || strings.Contains(strings.ToLower(doc.Content), q) {
			out = append(out, doc)
		}
	}
	return out
}
