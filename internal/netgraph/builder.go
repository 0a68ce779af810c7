package netgraph

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/metapiqma/review-service/internal/domain"
)

// ArticleProvider supplies the non-duplicate article set for a project.
// A fetch failure propagates as an error; an empty result is a valid
// outcome and yields an empty graph.
type ArticleProvider interface {
	ArticlesForProject(ctx context.Context, projectID string) ([]domain.Article, error)
}

// Builder transforms an article list into graph elements. The zero
// configuration uses the default topic dictionary and a time-seeded rand
// source for the synthetic cites edges; tests inject a fixed seed to assert
// exact edge sets.
type Builder struct {
	topics []Topic
	rng    *rand.Rand
}

// Option configures a Builder.
type Option func(*Builder)

// WithTopics replaces the default keyword-to-topic dictionary.
func WithTopics(topics []Topic) Option {
	return func(b *Builder) { b.topics = topics }
}

// WithRandSource makes the synthetic cites selection deterministic by
// seeding it from the given source.
func WithRandSource(src rand.Source) Option {
	return func(b *Builder) { b.rng = rand.New(src) }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		topics: DefaultTopics(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildForProject fetches the project's articles from the provider and
// builds the graph. Fetch failures propagate; an empty article list
// returns an empty element list and a nil error, which callers must treat
// as a valid "nothing yet" outcome distinct from failure.
func (b *Builder) BuildForProject(ctx context.Context, provider ArticleProvider, projectID string) ([]Element, error) {
	articles, err := provider.ArticlesForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching articles for project %s: %w", projectID, err)
	}
	return b.Build(projectID, articles), nil
}

// Build constructs the full element list for one article set: one paper
// node per article, one author node per distinct extracted author, one
// topic node per topic with at least one title match, then authored,
// discusses, cites, and coauthored edges. All element ids except the
// random cites edges are deterministically derived from their constituent
// node ids, so repeated builds over unchanged input produce identical
// identifiers.
func (b *Builder) Build(projectID string, articles []domain.Article) []Element {
	if len(articles) == 0 {
		return []Element{}
	}

	// Author extraction: author name -> ordered paper ids, plus first-seen
	// ordering so node emission is deterministic.
	authorPapers := make(map[string][]string)
	var authorOrder []string
	for _, a := range articles {
		for _, name := range a.NormalizedAuthors() {
			if _, seen := authorPapers[name]; !seen {
				authorOrder = append(authorOrder, name)
			}
			authorPapers[name] = append(authorPapers[name], a.ID)
		}
	}

	// Topic extraction: topic name -> matched paper ids. Topics with zero
	// matches are omitted from the graph entirely.
	topicPapers := make(map[string][]string)
	var topicOrder []string
	for _, a := range articles {
		for _, topic := range matchTopics(b.topics, a.Title) {
			if _, seen := topicPapers[topic.Name]; !seen {
				topicOrder = append(topicOrder, topic.Name)
			}
			topicPapers[topic.Name] = append(topicPapers[topic.Name], a.ID)
		}
	}

	elements := make([]Element, 0, len(articles)*3)

	// Paper nodes carry the display fields the visualization layer renders.
	for _, a := range articles {
		label := a.Title
		if label == "" {
			label = a.ID
		}
		elements = append(elements, Element{Data: ElementData{
			ID:       a.ID,
			Label:    label,
			Type:     NodePaper,
			Title:    a.Title,
			Year:     a.Year,
			Authors:  a.NormalizedAuthors(),
			Abstract: a.Abstract,
			URL:      a.URL,
			Database: string(a.Source),
			Status:   string(a.Status),
		}})
	}

	for _, name := range authorOrder {
		elements = append(elements, Element{Data: ElementData{
			ID:         authorNodeID(name),
			Label:      name,
			Type:       NodeAuthor,
			PaperCount: len(authorPapers[name]),
		}})
	}

	for _, name := range topicOrder {
		elements = append(elements, Element{Data: ElementData{
			ID:         topicNodeID(name),
			Label:      name,
			Type:       NodeTopic,
			PaperCount: len(topicPapers[name]),
		}})
	}

	// authored: one edge per (author, paper) pair.
	for _, name := range authorOrder {
		for _, paperID := range authorPapers[name] {
			src := authorNodeID(name)
			elements = append(elements, Element{Data: ElementData{
				ID:     edgeID(src, RelationAuthored, paperID),
				Label:  string(RelationAuthored),
				Source: src,
				Target: paperID,
			}})
		}
	}

	// discusses: one edge per (paper, topic) pair.
	for _, name := range topicOrder {
		for _, paperID := range topicPapers[name] {
			dst := topicNodeID(name)
			elements = append(elements, Element{Data: ElementData{
				ID:     edgeID(paperID, RelationDiscusses, dst),
				Label:  string(RelationDiscusses),
				Source: paperID,
				Target: dst,
			}})
		}
	}

	elements = append(elements, b.citesEdges(articles)...)
	elements = append(elements, b.coauthoredEdges(articles)...)

	return elements
}

// citesEdges selects, for each paper, a random count of 1-3 distinct other
// papers and emits one cites edge per selection. The relation is synthetic
// placeholder data.
func (b *Builder) citesEdges(articles []domain.Article) []Element {
	if len(articles) < 2 {
		return nil
	}

	var elements []Element
	for i, a := range articles {
		count := 1 + b.rng.Intn(3)
		if max := len(articles) - 1; count > max {
			count = max
		}

		picked := make(map[int]struct{}, count)
		for len(picked) < count {
			j := b.rng.Intn(len(articles))
			if j == i {
				continue
			}
			picked[j] = struct{}{}
		}

		for j := range picked {
			elements = append(elements, Element{Data: ElementData{
				ID:     edgeID(a.ID, RelationCites, articles[j].ID),
				Label:  string(RelationCites),
				Source: a.ID,
				Target: articles[j].ID,
			}})
		}
	}
	return elements
}

// coauthoredEdges emits one edge per unordered pair of distinct authors
// appearing together on an article. A pair sharing several articles
// collapses to a single edge: element ids are derived purely from the
// constituent node ids, so id uniqueness wins over per-article edges.
func (b *Builder) coauthoredEdges(articles []domain.Article) []Element {
	var elements []Element
	emitted := make(map[string]struct{})

	for _, a := range articles {
		authors := a.NormalizedAuthors()
		for i := 0; i < len(authors); i++ {
			for j := i + 1; j < len(authors); j++ {
				if authors[i] == authors[j] {
					continue
				}
				src := authorNodeID(authors[i])
				dst := authorNodeID(authors[j])
				id := edgeID(src, RelationCoauthored, dst)
				if _, dup := emitted[id]; dup {
					continue
				}
				emitted[id] = struct{}{}
				elements = append(elements, Element{Data: ElementData{
					ID:     id,
					Label:  string(RelationCoauthored),
					Source: src,
					Target: dst,
				}})
			}
		}
	}
	return elements
}
