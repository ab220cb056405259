// Package wiki fetches, parses, caches, and searches wiki pages. It is the
// retrieval half of the RAG pipeline: a disk-backed TTL cache fronting an
// HTTP client that turns raw wiki markup into ordered, titled sections.
package wiki

import "time"

// Section is a titled block of page content, the unit of both storage and
// search ranking. Content is normalized: citation markers and [edit]
// annotations stripped, blank-line runs collapsed.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Page is a parsed wiki page. Sections preserve document order; content
// appearing before the first heading lands in an implicit "Introduction"
// section.
type Page struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Sections  []Section `json:"sections"`
	FetchedAt time.Time `json:"fetched_at"`
}
