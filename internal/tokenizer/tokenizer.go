// Package tokenizer estimates how many model tokens a generated document costs.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o"
	// FallbackEncoding estimates models tiktoken has no encoding for.
	FallbackEncoding = "cl100k_base"

	errorFallbackEncodingFormat = "loading %s encoding: %w"
)

// Estimator counts tokens with the encoding of a single model.
type Estimator struct {
	label    string
	fallback bool
	encoding *tiktoken.Tiktoken
}

// NewEstimator returns an Estimator for model. A model without a known
// encoding is estimated with FallbackEncoding and labelled with it.
func NewEstimator(model string) (*Estimator, error) {
	normalizedModel := normalizeModel(model)
	if encoding, modelError := tiktoken.EncodingForModel(normalizedModel); modelError == nil {
		return &Estimator{label: normalizedModel, encoding: encoding}, nil
	}
	encoding, fallbackError := tiktoken.GetEncoding(FallbackEncoding)
	if fallbackError != nil {
		return nil, fmt.Errorf(errorFallbackEncodingFormat, FallbackEncoding, fallbackError)
	}
	return &Estimator{label: FallbackEncoding, fallback: true, encoding: encoding}, nil
}

// Label names the model, or the fallback encoding, the estimate is for.
func (estimator *Estimator) Label() string {
	return estimator.label
}

// Approximate reports whether the fallback encoding is in use.
func (estimator *Estimator) Approximate() bool {
	return estimator.fallback
}

// Count returns the number of tokens in text.
func (estimator *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(estimator.encoding.Encode(text, nil, nil))
}

func normalizeModel(model string) string {
	normalized := strings.ToLower(strings.TrimSpace(model))
	if normalized == "" {
		return DefaultModel
	}
	return normalized
}
