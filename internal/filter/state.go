package filter

import (
	"fmt"
	"strings"
)

// SalaryRange is a slider position. Unlike SalaryBounds both ends are set.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultSalaryRange is the slider position of a fresh or cleared session.
var DefaultSalaryRange = SalaryRange{Min: DefaultSalaryMin, Max: DefaultSalaryMax}

// State is the filter state of one browsing session.
//
// Criteria is the committed predicate handed to the query engine. Preview is
// the live salary slider position; moving it never triggers a query. Page
// resets to 1 on every criteria mutation. Seq grows on every transition that
// requires a re-query, so consumers can discard results computed for an
// older State.
type State struct {
	Criteria Criteria    `json:"criteria"`
	Preview  SalaryRange `json:"preview"`
	Page     int         `json:"page"`
	Seq      uint64      `json:"seq"`
}

// NewState returns the empty state of a new session.
func NewState() State {
	return State{Preview: DefaultSalaryRange, Page: 1}
}

// IsEmpty reports whether the committed criteria place no constraint.
func (s State) IsEmpty() bool { return s.Criteria.IsEmpty() }

// HasActiveFilters reports whether the committed criteria hold any
// non-default dimension.
func (s State) HasActiveFilters() bool { return s.Criteria.HasActiveFilters() }

func (s State) commit(c Criteria) State {
	s.Criteria = c
	s.Page = 1
	s.Seq++
	return s
}

// Toggle adds or removes value in a multi-valued dimension.
func (s State) Toggle(dim Dimension, value string) (State, error) {
	c, err := s.Criteria.Toggle(dim, value)
	if err != nil {
		return s, err
	}
	return s.commit(c), nil
}

// SetQuery sets the free-text query; a blank value removes the key.
func (s State) SetQuery(q string) State {
	c := s.Criteria.Clone()
	c.Query = strings.TrimSpace(q)
	return s.commit(c)
}

// SetLocation sets the location substring; a blank value removes the key.
func (s State) SetLocation(loc string) State {
	c := s.Criteria.Clone()
	c.Location = strings.TrimSpace(loc)
	return s.commit(c)
}

// SetPostedWithin restricts results to jobs posted in the last days days.
// The value is not validated.
func (s State) SetPostedWithin(days int) State {
	c := s.Criteria.Clone()
	c.PostedWithin = &days
	return s.commit(c)
}

// ClearPostedWithin removes the postedWithin key.
func (s State) ClearPostedWithin() State {
	c := s.Criteria.Clone()
	c.PostedWithin = nil
	return s.commit(c)
}

// PreviewSalary moves the slider. Criteria, Page and Seq are unchanged.
func (s State) PreviewSalary(r SalaryRange) State {
	s.Preview = r
	return s
}

// CommitSalary copies the previewed range into the criteria.
func (s State) CommitSalary() State {
	c := s.Criteria.Clone()
	lo, hi := s.Preview.Min, s.Preview.Max
	c.Salary = NewSalaryBounds(&lo, &hi)
	return s.commit(c)
}

// Clear resets to the single canonical empty criteria and the default
// slider position.
func (s State) Clear() State {
	s.Preview = DefaultSalaryRange
	return s.commit(Criteria{})
}

// SetPage moves to page without touching the criteria.
func (s State) SetPage(page int) (State, error) {
	if page < 1 {
		return s, fmt.Errorf("page must be >= 1, got %d", page)
	}
	s.Page = page
	s.Seq++
	return s, nil
}
