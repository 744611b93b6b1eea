package main

import (
	"github.com/hickeroar/spamcheck/bayes"
	"github.com/hickeroar/spamcheck/bayes/category"
)

// ClassificationResponse is the /classify payload: the winning label, both
// posteriors and the tokens they were computed from.
type ClassificationResponse struct {
	Category string   `json:"category"`
	Spam     float64  `json:"spam"`
	Ham      float64  `json:"ham"`
	Tokens   []string `json:"tokens"`
}

// NewClassificationResponse assembles a ClassificationResponse from a posterior.
func NewClassificationResponse(posterior bayes.Posterior) *ClassificationResponse {
	tokens := posterior.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	return &ClassificationResponse{
		Category: string(posterior.Label()),
		Spam:     posterior.Spam,
		Ham:      posterior.Ham,
		Tokens:   tokens,
	}
}

// InfoResponse describes the model the API classifies with.
type InfoResponse struct {
	Smoothing  float64                     `json:"smoothing"`
	Priors     bayes.Priors                `json:"priors"`
	Categories map[string]category.Summary `json:"categories"`
}

// NewInfoResponse gets an assembled instance of InfoResponse.
func NewInfoResponse(classifier *bayes.Classifier) *InfoResponse {
	return &InfoResponse{
		Smoothing:  classifier.Smoothing(),
		Priors:     classifier.Priors(),
		Categories: classifier.Model().Summaries(),
	}
}
