package model

// SourceFailure explains why a source contributed nothing to a result.
type SourceFailure struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// AggregateResult is the outcome of one aggregation request: the bounded,
// deduplicated records plus the sources that failed along the way.
type AggregateResult struct {
	Records  []ContactRecord `json:"results"`
	Failures []SourceFailure `json:"failures,omitempty"`
}
