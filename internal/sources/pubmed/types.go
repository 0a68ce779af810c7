// Package pubmed provides a client for the NCBI PubMed E-utilities API.
//
// The search runs in two steps: esearch.fcgi returns the PMIDs matching a
// query, then efetch.fcgi returns full article metadata for those PMIDs.
// E-utilities documentation: https://www.ncbi.nlm.nih.gov/books/NBK25499/
package pubmed

import "encoding/xml"

// esearchResponse is the JSON envelope returned by esearch.fcgi with
// retmode=json.
type esearchResponse struct {
	ESearchResult esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// articleSet is the XML document returned by efetch.fcgi.
type articleSet struct {
	XMLName  xml.Name       `xml:"PubmedArticleSet"`
	Articles []pubmedRecord `xml:"PubmedArticle"`
}

type pubmedRecord struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string        `xml:"PMID"`
	Article pubmedArticle `xml:"Article"`
}

type pubmedArticle struct {
	ArticleTitle string      `xml:"ArticleTitle"`
	Abstract     *abstract   `xml:"Abstract"`
	AuthorList   *authorList `xml:"AuthorList"`
	Journal      journal     `xml:"Journal"`
}

type abstract struct {
	Texts []string `xml:"AbstractText"`
}

type authorList struct {
	Authors []author `xml:"Author"`
}

type author struct {
	LastName string `xml:"LastName"`
	Initials string `xml:"Initials"`
	// CollectiveName holds group authorship (consortia etc.) when the
	// record has no individual name.
	CollectiveName string `xml:"CollectiveName"`
}

type journal struct {
	JournalIssue journalIssue `xml:"JournalIssue"`
}

type journalIssue struct {
	PubDate pubDate `xml:"PubDate"`
}

type pubDate struct {
	Year string `xml:"Year"`
	// MedlineDate carries free-form dates like "2023 Nov-Dec" when Year is
	// absent.
	MedlineDate string `xml:"MedlineDate"`
}
