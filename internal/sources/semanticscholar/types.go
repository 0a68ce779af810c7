// Package semanticscholar provides a client for the Semantic Scholar
// Academic Graph API.
//
// API documentation: https://api.semanticscholar.org/api-docs/
package semanticscholar

// searchResponse is the JSON envelope from /graph/v1/paper/search.
type searchResponse struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Next   int           `json:"next"`
	Data   []paperRecord `json:"data"`
}

type paperRecord struct {
	PaperID  string         `json:"paperId"`
	Title    string         `json:"title"`
	Abstract string         `json:"abstract"`
	Year     int            `json:"year"`
	URL      string         `json:"url"`
	Authors  []authorRecord `json:"authors"`
}

type authorRecord struct {
	Name string `json:"name"`
}
