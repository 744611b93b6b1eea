package category

import "sort"

// Summary is a read-only snapshot of one category.
type Summary struct {
	TokenTally int `json:"token_tally"`
	Vocabulary int `json:"vocabulary"`
}

// Categories holds the frequency table for every label.
type Categories struct {
	categories map[string]*Category
}

// NewCategories returns a pointer to an empty Categories set.
func NewCategories() *Categories {
	return &Categories{
		categories: make(map[string]*Category),
	}
}

// AddCategory adds a new empty category, replacing any existing one.
func (cats *Categories) AddCategory(name string) *Category {
	cat := NewCategory(name)
	cats.categories[name] = cat
	return cat
}

// GetCategory returns the named category, creating it if it does not exist.
func (cats *Categories) GetCategory(name string) *Category {
	if val, ok := cats.categories[name]; ok {
		return val
	}

	return cats.AddCategory(name)
}

// LookupCategory returns the named category without creating it.
func (cats *Categories) LookupCategory(name string) (*Category, bool) {
	cat, ok := cats.categories[name]
	return cat, ok
}

// Names returns the category names in lexical order.
func (cats *Categories) Names() []string {
	names := make([]string, 0, len(cats.categories))
	for name := range cats.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summaries returns a value snapshot of every category keyed by name.
func (cats *Categories) Summaries() map[string]Summary {
	out := make(map[string]Summary, len(cats.categories))
	for name, cat := range cats.categories {
		out[name] = cat.Summary()
	}
	return out
}
