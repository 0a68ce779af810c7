package netgraph

import "strings"

// Topic associates a display name with the title keywords that mark an
// article as discussing it.
type Topic struct {
	Name     string
	Keywords []string
}

// DefaultTopics is the fixed keyword-to-topic dictionary applied when no
// custom taxonomy is supplied. Matching is case-insensitive substring
// search over article titles; an article may match zero, one, or several
// topics.
func DefaultTopics() []Topic {
	return []Topic{
		{Name: "Machine Learning", Keywords: []string{"learning", "neural", "model", "algorithm"}},
		{Name: "Clinical Trials", Keywords: []string{"trial", "randomized", "randomised", "placebo"}},
		{Name: "Epidemiology", Keywords: []string{"cohort", "prevalence", "incidence", "population-based"}},
		{Name: "Genomics", Keywords: []string{"gene", "genomic", "crispr", "sequencing"}},
		{Name: "Public Health", Keywords: []string{"policy", "intervention program", "vaccination", "screening program"}},
	}
}

// matchTopics returns the topics whose keyword sets match the lowercased
// title. An empty title matches nothing.
func matchTopics(topics []Topic, title string) []Topic {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if lowered == "" {
		return nil
	}

	var matched []Topic
	for _, topic := range topics {
		for _, kw := range topic.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				matched = append(matched, topic)
				break
			}
		}
	}
	return matched
}
