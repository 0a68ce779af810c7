// Package arxiv provides a client for the ArXiv Atom query API.
//
// API documentation: https://info.arxiv.org/help/api/
package arxiv

import "encoding/xml"

// feed is the Atom document returned by the query endpoint.
type feed struct {
	XMLName      xml.Name `xml:"feed"`
	TotalResults int      `xml:"totalResults"`
	Entries      []entry  `xml:"entry"`
}

type entry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []entryAuthor `xml:"author"`
}

type entryAuthor struct {
	Name string `xml:"name"`
}
