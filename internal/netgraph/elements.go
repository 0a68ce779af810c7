// Package netgraph builds the bibliometric network graph for a review
// project: paper, author, and topic nodes connected by authored, discusses,
// cites, and coauthored edges, emitted as a flat element list in the
// Cytoscape.js {data: {...}} shape consumed by the visualization layer.
package netgraph

import "fmt"

// NodeType identifies the kind of a graph node.
type NodeType string

const (
	NodePaper  NodeType = "paper"
	NodeAuthor NodeType = "author"
	NodeTopic  NodeType = "topic"
)

// Relation identifies the kind of a graph edge.
type Relation string

const (
	// RelationAuthored links an author to a paper they appear on.
	RelationAuthored Relation = "authored"

	// RelationDiscusses links a paper to a topic matched in its title.
	RelationDiscusses Relation = "discusses"

	// RelationCites links a paper to other papers. This is a synthetic
	// placeholder relation drawn at random, not derived from real citation
	// data, and callers must not treat it as ground truth.
	RelationCites Relation = "cites"

	// RelationCoauthored links two authors appearing on the same paper.
	RelationCoauthored Relation = "coauthored"
)

// Element is one graph element in Cytoscape.js format: a node or an edge,
// distinguished by which Data fields are set.
type Element struct {
	Data ElementData `json:"data"`
}

// ElementData holds the node or edge fields. Nodes always carry id, label,
// and type plus type-specific display fields; edges always carry id,
// source, target, and label.
type ElementData struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Node fields.
	Type NodeType `json:"type,omitempty"`

	// Paper display fields.
	Title    string   `json:"title,omitempty"`
	Year     int      `json:"year,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	URL      string   `json:"url,omitempty"`
	Database string   `json:"database,omitempty"`
	Status   string   `json:"status,omitempty"`

	// Author and topic display fields.
	PaperCount int `json:"paperCount,omitempty"`

	// Edge fields.
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// IsEdge reports whether the element is an edge.
func (e Element) IsEdge() bool {
	return e.Data.Source != "" && e.Data.Target != ""
}

// edgeID derives a deterministic edge identifier from the constituent node
// ids, so repeated builds without data change produce identical ids.
func edgeID(source string, relation Relation, target string) string {
	return fmt.Sprintf("%s_%s_%s", source, relation, target)
}

// authorNodeID derives the node id for an author. Author identity is exact
// string match on the trimmed name; spelling variants are distinct authors.
func authorNodeID(name string) string {
	return "author_" + name
}

// topicNodeID derives the node id for a topic.
func topicNodeID(name string) string {
	return "topic_" + name
}
