// Package query evaluates filter criteria against a job corpus.
//
// The engine is a pure function of (corpus, criteria, page, pageSize, now).
// It never mutates the corpus, never caches, and never fails on an empty or
// out-of-range result.
package query

import (
	"strings"
	"time"

	"jobverse/internal/filter"
	"jobverse/internal/model"
)

// DefaultPageSize is used when the caller passes a non-positive page size.
const DefaultPageSize = 10

// Clock returns the current time. Tests inject a fixed instant.
type Clock func() time.Time

// Pagination describes where a page sits in the filtered result.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// Page is one page of a filtered corpus.
type Page struct {
	Items      []model.JobRecord `json:"jobs"`
	Pagination Pagination        `json:"pagination"`
}

// Engine runs queries. It holds no state besides its clock.
type Engine struct {
	now Clock
}

// NewEngine returns an Engine reading wall-clock time from now; nil means
// time.Now.
func NewEngine(now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Query filters corpus by c and returns the requested page. Corpus order is
// preserved. A page past the end yields no items; page < 1 is read as 1.
func (e *Engine) Query(corpus []model.JobRecord, c filter.Criteria, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	matched := e.Filter(corpus, c)
	total := len(matched)
	pages := totalPages(total, pageSize)

	items := []model.JobRecord{}
	// page-1 < pages bounds start by total, so neither product overflows.
	if page-1 < pages {
		start := (page - 1) * pageSize
		end := total
		if total-start > pageSize {
			end = start + pageSize
		}
		items = matched[start:end]
	}

	return Page{
		Items: items,
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  pages,
			TotalItems:  total,
		},
	}
}

// totalPages is ceil(total/pageSize) without the overflow of
// (total+pageSize-1)/pageSize.
func totalPages(total, pageSize int) int {
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}

// Filter applies every present dimension of c as a narrowing pass, reading
// the clock once for the whole evaluation.
func (e *Engine) Filter(corpus []model.JobRecord, c filter.Criteria) []model.JobRecord {
	out := append([]model.JobRecord(nil), corpus...)
	for _, keep := range passes(c, e.now()) {
		out = narrow(out, keep)
	}
	return out
}

// Lookup returns the job with id, or model.ErrJobNotFound.
func Lookup(corpus []model.JobRecord, id string) (model.JobRecord, error) {
	for _, j := range corpus {
		if j.ID == id {
			return j, nil
		}
	}
	return model.JobRecord{}, model.ErrJobNotFound
}

type predicate func(model.JobRecord) bool

func narrow(jobs []model.JobRecord, keep predicate) []model.JobRecord {
	out := jobs[:0]
	for _, j := range jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

// passes returns one predicate per present dimension.
func passes(c filter.Criteria, now time.Time) []predicate {
	var ps []predicate

	if c.Query != "" {
		q := strings.ToLower(c.Query)
		ps = append(ps, func(j model.JobRecord) bool {
			return containsFold(j.Title, q) ||
				containsFold(j.Description, q) ||
				containsFold(j.Employer.Name, q)
		})
	}

	if c.Location != "" {
		loc := strings.ToLower(c.Location)
		ps = append(ps, func(j model.JobRecord) bool {
			return containsFold(j.Location, loc)
		})
	}

	if c.Types.IsConstrained() {
		ps = append(ps, func(j model.JobRecord) bool { return c.Types.Contains(j.Type) })
	}

	if c.Categories.IsConstrained() {
		ps = append(ps, func(j model.JobRecord) bool { return c.Categories.Contains(j.Category) })
	}

	if c.Skills.IsConstrained() {
		ps = append(ps, func(j model.JobRecord) bool { return c.Skills.Intersects(j.Skills) })
	}

	if c.Experience.IsConstrained() {
		ps = append(ps, func(j model.JobRecord) bool {
			return j.ExperienceLevel != "" && c.Experience.Contains(j.ExperienceLevel)
		})
	}

	if c.Salary != nil {
		lo, hi := c.Salary.Min, c.Salary.Max
		ps = append(ps, func(j model.JobRecord) bool {
			if j.Salary == nil {
				return false
			}
			if lo != nil && j.Salary.Min < *lo {
				return false
			}
			if hi != nil && j.Salary.Max > *hi {
				return false
			}
			return true
		})
	}

	if c.PostedWithin != nil {
		cutoff := now.AddDate(0, 0, -*c.PostedWithin)
		ps = append(ps, func(j model.JobRecord) bool { return !j.PostedAt.Before(cutoff) })
	}

	return ps
}

// containsFold reports whether lowerNeedle occurs in s, ignoring case.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
