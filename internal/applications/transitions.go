// Package applications tracks job applications through the hiring pipeline.
//
// Valid status graph:
//
//	pending ──► reviewed ──► shortlisted ──► hired
//	   │            │             │
//	   └────────────┴─────────────┴──► rejected
//
// hired and rejected are terminal states.
package applications

import "fmt"

// Status is the stage of an application.
type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewed    Status = "reviewed"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending:     {StatusReviewed, StatusRejected},
	StatusReviewed:    {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusHired, StatusRejected},
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values. Matching is exact.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusHired:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed reports whether moving from → to is permitted.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
