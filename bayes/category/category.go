package category

import (
	"errors"
	"fmt"
)

var errInvalidCount = errors.New("token count must be positive")

// Category is the frequency table for a single label: how often each token
// was seen in that label's training text and the running total.
type Category struct {
	name   string
	tokens map[string]int
	tally  int
}

// NewCategory returns a pointer to an empty Category.
func NewCategory(name string) *Category {
	return &Category{
		name:   name,
		tokens: make(map[string]int),
	}
}

// Name returns the label this table belongs to.
func (cat *Category) Name() string {
	return cat.name
}

// TrainToken adds count occurrences of word to this category.
func (cat *Category) TrainToken(word string, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: %d", errInvalidCount, count)
	}

	cat.tokens[word] += count
	cat.tally += count

	return nil
}

// GetTokenCount returns how often word was trained, or zero if never seen.
func (cat *Category) GetTokenCount(word string) int {
	if val, ok := cat.tokens[word]; ok {
		return val
	}
	return 0
}

// GetTally returns the total of all token counts for this category.
func (cat *Category) GetTally() int {
	return cat.tally
}

// GetVocabulary returns the number of distinct tokens in this category.
func (cat *Category) GetVocabulary() int {
	return len(cat.tokens)
}

// Summary returns a value snapshot of the category's counters.
func (cat *Category) Summary() Summary {
	return Summary{
		TokenTally: cat.tally,
		Vocabulary: len(cat.tokens),
	}
}
