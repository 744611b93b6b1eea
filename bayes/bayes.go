package bayes

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSmoothing is the additive denominator term used with the +1
// Laplace numerator. It stands in for the vocabulary size.
const DefaultSmoothing = 100.0

const priorSumTolerance = 1e-9

// ErrEmptyInput is returned when a query has no non-whitespace characters.
var ErrEmptyInput = errors.New("empty input")

var errInvalidPriors = errors.New("invalid priors")

// Priors are the label probabilities assumed before seeing any tokens.
type Priors struct {
	Spam float64 `json:"spam" yaml:"spam"`
	Ham  float64 `json:"ham" yaml:"ham"`
}

// DefaultPriors weights both labels equally.
var DefaultPriors = Priors{Spam: 0.5, Ham: 0.5}

// Validate reports whether the priors are non-negative and sum to one.
func (p Priors) Validate() error {
	if p.Spam < 0 || p.Ham < 0 {
		return fmt.Errorf("%w: negative prior spam=%g ham=%g", errInvalidPriors, p.Spam, p.Ham)
	}
	if math.Abs(p.Spam+p.Ham-1) > priorSumTolerance {
		return fmt.Errorf("%w: spam=%g ham=%g must sum to 1", errInvalidPriors, p.Spam, p.Ham)
	}
	return nil
}

// Posterior is the outcome of classifying one query.
type Posterior struct {
	Spam   float64  `json:"spam"`
	Ham    float64  `json:"ham"`
	Tokens []string `json:"tokens"`
}

// Label returns the more probable label. An exact tie goes to Ham.
func (p Posterior) Label() Label {
	if p.Spam > p.Ham {
		return Spam
	}
	return Ham
}

// Classify scores query against model with Naive Bayes. Each token,
// repeats included, multiplies a label's likelihood by
// (count+1)/(total+smoothing); the joint scores are then normalized.
func Classify(model *Model, priors Priors, smoothing float64, query string) (Posterior, error) {
	if isBlank(query) {
		return Posterior{}, ErrEmptyInput
	}

	tokens := Tokenize(query)

	spamDenominator := float64(model.Total(Spam)) + smoothing
	hamDenominator := float64(model.Total(Ham)) + smoothing

	likelihoodSpam := 1.0
	likelihoodHam := 1.0
	for _, token := range tokens {
		likelihoodSpam *= float64(model.Count(Spam, token)+1) / spamDenominator
		likelihoodHam *= float64(model.Count(Ham, token)+1) / hamDenominator
	}

	jointSpam := likelihoodSpam * priors.Spam
	jointHam := likelihoodHam * priors.Ham

	evidence := jointSpam + jointHam
	if evidence == 0 {
		// Both products underflowed; nothing is left but the priors.
		jointSpam, evidence = priors.Spam, priors.Spam+priors.Ham
	}

	pSpam := jointSpam / evidence
	return Posterior{
		Spam:   pSpam,
		Ham:    1 - pSpam,
		Tokens: tokens,
	}, nil
}

// Classifier bundles a model with the priors and smoothing constant used to
// score queries against it.
type Classifier struct {
	model     *Model
	priors    Priors
	smoothing float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPriors overrides DefaultPriors.
func WithPriors(priors Priors) Option {
	return func(c *Classifier) {
		c.priors = priors
	}
}

// WithSmoothing overrides DefaultSmoothing.
func WithSmoothing(smoothing float64) Option {
	return func(c *Classifier) {
		c.smoothing = smoothing
	}
}

// NewClassifier returns a Classifier for model. A nil model is built from
// DefaultCorpus.
func NewClassifier(model *Model, opts ...Option) *Classifier {
	if model == nil {
		model = Build(DefaultCorpus())
	}
	c := &Classifier{
		model:     model,
		priors:    DefaultPriors,
		smoothing: DefaultSmoothing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the frequency model the classifier reads.
func (c *Classifier) Model() *Model {
	return c.model
}

// Priors returns the configured priors.
func (c *Classifier) Priors() Priors {
	return c.priors
}

// Smoothing returns the configured smoothing constant.
func (c *Classifier) Smoothing() float64 {
	return c.smoothing
}

// Classify scores query with the classifier's settings.
func (c *Classifier) Classify(query string) (Posterior, error) {
	return Classify(c.model, c.priors, c.smoothing, query)
}

// Score returns the posterior of each label keyed by label name.
func (c *Classifier) Score(query string) (map[string]float64, error) {
	posterior, err := c.Classify(query)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		string(Spam): posterior.Spam,
		string(Ham):  posterior.Ham,
	}, nil
}
