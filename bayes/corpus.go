package bayes

// Label names one of the two classes a text can belong to.
type Label string

const (
	Spam Label = "spam"
	Ham  Label = "ham"
)

// Labels lists every label in lexical order.
var Labels = []Label{Ham, Spam}

// Entry is one labeled training example.
type Entry struct {
	Label Label
	Text  string
}

var (
	defaultSpam = []string{
		"win money now",
		"free cash offer",
		"claim your lottery prize",
		"winner prize cash",
		"free vacation now",
	}
	defaultHam = []string{
		"meeting schedule attached",
		"project deadline extended",
		"please review the report",
		"let's have a call tomorrow",
		"team lunch invitation",
	}
)

// NewCorpus returns the spam examples followed by the ham examples, each
// in the order given.
func NewCorpus(spam, ham []string) []Entry {
	entries := make([]Entry, 0, len(spam)+len(ham))
	for _, text := range spam {
		entries = append(entries, Entry{Label: Spam, Text: text})
	}
	for _, text := range ham {
		entries = append(entries, Entry{Label: Ham, Text: text})
	}
	return entries
}

// DefaultCorpus returns a fresh copy of the built-in example sentences.
func DefaultCorpus() []Entry {
	return NewCorpus(defaultSpam, defaultHam)
}
