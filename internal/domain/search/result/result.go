package result

import "github.com/chefboost/chefboost/internal/domain/search/strategy"

// Result is a single scored document hit: a recipe chunk paired with its
// relevance score and the strategy that produced it.
type Result struct {
	id       string
	score    float64
	content  string
	metadata map[string]string
	source   strategy.Name
}

// New creates a scored document.
func New(
	id string, score float64, content string,
	metadata map[string]string, source strategy.Name,
) Result {
	return Result{
		id: id, score: score, content: content,
		metadata: metadata, source: source,
	}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score (higher is more relevant).
func (r *Result) Score() float64 { return r.score }

// Content returns the document text body.
func (r *Result) Content() string { return r.content }

// Metadata returns the document metadata attributes.
func (r *Result) Metadata() map[string]string { return r.metadata }

// Source returns the name of the strategy that produced this hit.
func (r *Result) Source() strategy.Name { return r.source }

// WithSource derives a copy tagged with a different strategy name.
func (r Result) WithSource(source strategy.Name) Result {
	r.source = source
	return r
}
