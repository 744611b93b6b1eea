package bayes

import "github.com/hickeroar/spamcheck/bayes/category"

// Model holds the per-label frequency tables. It is built once and only
// read afterwards, so one Model may be shared by concurrent callers.
type Model struct {
	categories *category.Categories
}

// Build tokenizes every entry and counts its tokens under the entry's label.
// Both labels are present in the result even when the corpus has no
// examples for one of them.
func Build(entries []Entry) *Model {
	cats := category.NewCategories()
	for _, label := range Labels {
		cats.AddCategory(string(label))
	}

	for _, entry := range entries {
		cat := cats.GetCategory(string(entry.Label))
		for _, token := range Tokenize(entry.Text) {
			// count is always 1, so TrainToken cannot fail here.
			_ = cat.TrainToken(token, 1)
		}
	}

	return &Model{categories: cats}
}

// Count returns how often token occurred in label's training text, or zero.
func (m *Model) Count(label Label, token string) int {
	cat, ok := m.categories.LookupCategory(string(label))
	if !ok {
		return 0
	}
	return cat.GetTokenCount(token)
}

// Total returns the number of tokens, repeats included, trained for label.
func (m *Model) Total(label Label) int {
	cat, ok := m.categories.LookupCategory(string(label))
	if !ok {
		return 0
	}
	return cat.GetTally()
}

// Vocabulary returns the number of distinct tokens trained for label.
func (m *Model) Vocabulary(label Label) int {
	cat, ok := m.categories.LookupCategory(string(label))
	if !ok {
		return 0
	}
	return cat.GetVocabulary()
}

// Summaries returns a snapshot of every label's counters keyed by label.
func (m *Model) Summaries() map[string]category.Summary {
	return m.categories.Summaries()
}
