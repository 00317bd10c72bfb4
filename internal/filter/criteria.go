// Package filter holds the job search predicate and the per-session state
// machine that edits it.
//
// A Criteria is either empty (no keys, matches every job) or constrained
// (one or more keys). Multi-valued dimensions are Sets, so removing the last
// value of a dimension drops the key instead of leaving an empty list.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobverse/internal/model"
)

// Default salary slider bounds.
const (
	DefaultSalaryMin = 0
	DefaultSalaryMax = 200000
)

// SalaryBounds constrains the salary dimension. Either bound may be absent.
type SalaryBounds struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// NewSalaryBounds returns nil when neither bound is set.
func NewSalaryBounds(lo, hi *int) *SalaryBounds {
	if lo == nil && hi == nil {
		return nil
	}
	b := &SalaryBounds{}
	if lo != nil {
		v := *lo
		b.Min = &v
	}
	if hi != nil {
		v := *hi
		b.Max = &v
	}
	return b
}

// IsDefault reports whether the bounds equal the slider defaults.
// A missing bound counts as its default.
func (b *SalaryBounds) IsDefault() bool {
	if b == nil {
		return true
	}
	lo, hi := DefaultSalaryMin, DefaultSalaryMax
	if b.Min != nil {
		lo = *b.Min
	}
	if b.Max != nil {
		hi = *b.Max
	}
	return lo == DefaultSalaryMin && hi == DefaultSalaryMax
}

func (b *SalaryBounds) clone() *SalaryBounds {
	if b == nil {
		return nil
	}
	return NewSalaryBounds(b.Min, b.Max)
}

// Criteria is the job search predicate. The zero value is the empty
// criteria. Dimensions combine with AND; values inside a Set combine with OR.
type Criteria struct {
	Query        string
	Location     string
	Types        Set[model.JobType]
	Categories   Set[string]
	Skills       Set[string]
	Experience   Set[model.ExperienceLevel]
	Salary       *SalaryBounds
	PostedWithin *int
}

// IsEmpty reports whether no dimension is present.
func (c Criteria) IsEmpty() bool {
	return c.Query == "" &&
		c.Location == "" &&
		!c.Types.IsConstrained() &&
		!c.Categories.IsConstrained() &&
		!c.Skills.IsConstrained() &&
		!c.Experience.IsConstrained() &&
		c.Salary == nil &&
		c.PostedWithin == nil
}

// Keys lists the present dimension keys in canonical order.
func (c Criteria) Keys() []string {
	var keys []string
	if c.Query != "" {
		keys = append(keys, "query")
	}
	if c.Location != "" {
		keys = append(keys, "location")
	}
	if c.Types.IsConstrained() {
		keys = append(keys, string(DimensionType))
	}
	if c.Categories.IsConstrained() {
		keys = append(keys, string(DimensionCategory))
	}
	if c.Skills.IsConstrained() {
		keys = append(keys, string(DimensionSkills))
	}
	if c.Experience.IsConstrained() {
		keys = append(keys, string(DimensionExperience))
	}
	if c.Salary != nil {
		keys = append(keys, "salary")
	}
	if c.PostedWithin != nil {
		keys = append(keys, "postedWithin")
	}
	return keys
}

// Clone returns a copy that shares no pointers with c.
func (c Criteria) Clone() Criteria {
	out := c
	out.Types = Constrained(c.Types.Values()...)
	out.Categories = Constrained(c.Categories.Values()...)
	out.Skills = Constrained(c.Skills.Values()...)
	out.Experience = Constrained(c.Experience.Values()...)
	out.Salary = c.Salary.clone()
	if c.PostedWithin != nil {
		v := *c.PostedWithin
		out.PostedWithin = &v
	}
	return out
}

// HasActiveFilters reports whether any dimension is present with a
// non-default value. Salary is compared against the slider defaults.
func (c Criteria) HasActiveFilters() bool {
	return c.Query != "" ||
		c.Location != "" ||
		c.Types.IsConstrained() ||
		c.Categories.IsConstrained() ||
		c.Skills.IsConstrained() ||
		c.Experience.IsConstrained() ||
		c.PostedWithin != nil ||
		(c.Salary != nil && !c.Salary.IsDefault())
}

// wireCriteria is the JSON shape; absent dimensions are omitted entirely.
type wireCriteria struct {
	Query        string                  `json:"query,omitempty"`
	Location     string                  `json:"location,omitempty"`
	Type         []model.JobType         `json:"type,omitempty"`
	Category     []string                `json:"category,omitempty"`
	Skills       []string                `json:"skills,omitempty"`
	Experience   []model.ExperienceLevel `json:"experience,omitempty"`
	Salary       *SalaryBounds           `json:"salary,omitempty"`
	PostedWithin *int                    `json:"postedWithin,omitempty"`
}

// MarshalJSON omits every absent dimension key.
func (c Criteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCriteria{
		Query:        c.Query,
		Location:     c.Location,
		Type:         c.Types.Values(),
		Category:     c.Categories.Values(),
		Skills:       c.Skills.Values(),
		Experience:   c.Experience.Values(),
		Salary:       c.Salary,
		PostedWithin: c.PostedWithin,
	})
}

// UnmarshalJSON treats empty arrays and blank strings as absent and rejects
// unknown job types or experience levels.
func (c *Criteria) UnmarshalJSON(b []byte) error {
	var w wireCriteria
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	for _, t := range w.Type {
		if _, err := model.ParseJobType(string(t)); err != nil {
			return err
		}
	}
	for _, l := range w.Experience {
		if _, err := model.ParseExperienceLevel(string(l)); err != nil {
			return err
		}
	}
	*c = Criteria{
		Query:        strings.TrimSpace(w.Query),
		Location:     strings.TrimSpace(w.Location),
		Types:        Constrained(w.Type...),
		Categories:   Constrained(w.Category...),
		Skills:       Constrained(w.Skills...),
		Experience:   Constrained(w.Experience...),
		PostedWithin: w.PostedWithin,
	}
	if w.Salary != nil {
		c.Salary = NewSalaryBounds(w.Salary.Min, w.Salary.Max)
	}
	return nil
}

// Dimension names a multi-valued dimension that can be toggled.
type Dimension string

const (
	DimensionType       Dimension = "type"
	DimensionCategory   Dimension = "category"
	DimensionSkills     Dimension = "skills"
	DimensionExperience Dimension = "experience"
)

// ParseDimension converts a raw string to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	switch d {
	case DimensionType, DimensionCategory, DimensionSkills, DimensionExperience:
		return d, nil
	}
	return "", fmt.Errorf("unknown filter dimension %q", s)
}

// Toggle flips value in the given dimension and returns the new criteria.
// Emptying a dimension removes its key.
func (c Criteria) Toggle(dim Dimension, value string) (Criteria, error) {
	out := c.Clone()
	switch dim {
	case DimensionType:
		t, err := model.ParseJobType(value)
		if err != nil {
			return c, err
		}
		out.Types = out.Types.Toggle(t)
	case DimensionCategory:
		out.Categories = out.Categories.Toggle(value)
	case DimensionSkills:
		out.Skills = out.Skills.Toggle(value)
	case DimensionExperience:
		l, err := model.ParseExperienceLevel(value)
		if err != nil {
			return c, err
		}
		out.Experience = out.Experience.Toggle(l)
	default:
		return c, fmt.Errorf("unknown filter dimension %q", dim)
	}
	return out, nil
}
