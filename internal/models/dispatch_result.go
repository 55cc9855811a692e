package models

import "time"

// DispatchResult is the outcome of replaying one synthesized request against
// the target.
type DispatchResult struct {
	Method      string
	Path        string
	OperationID string

	Sent  bool
	Error string

	StatusCode   int
	StatusLine   string
	ResponseTime time.Duration
}

// DispatchSummary aggregates the results of a dispatch run.
type DispatchSummary struct {
	Total   int
	Sent    int
	Failed  int
	Results []DispatchResult
}

// AddResult adds a dispatch result to the summary.
func (s *DispatchSummary) AddResult(result DispatchResult) {
	s.Total++
	s.Results = append(s.Results, result)
	if result.Sent {
		s.Sent++
	} else {
		s.Failed++
	}
}
