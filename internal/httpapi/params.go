package httpapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobverse/internal/filter"
	"jobverse/internal/model"
)

// listParam collects a multi-valued query parameter given either repeated
// (?skills=a&skills=b) or comma-separated (?skills=a,b). Blank items are
// dropped.
func listParam(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// intParam returns nil when key is absent or blank.
func intParam(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return &n, nil
}

// criteriaFromQuery builds filter criteria from the list endpoint's query
// string. Absent or blank parameters leave their dimension unconstrained.
func criteriaFromQuery(c *gin.Context) (filter.Criteria, error) {
	crit := filter.Criteria{
		Query:      strings.TrimSpace(c.Query("query")),
		Location:   strings.TrimSpace(c.Query("location")),
		Categories: filter.Constrained(listParam(c, "category")...),
		Skills:     filter.Constrained(listParam(c, "skills")...),
	}

	var types []model.JobType
	for _, v := range listParam(c, "type") {
		t, err := model.ParseJobType(v)
		if err != nil {
			return filter.Criteria{}, err
		}
		types = append(types, t)
	}
	crit.Types = filter.Constrained(types...)

	var levels []model.ExperienceLevel
	for _, v := range listParam(c, "experience") {
		l, err := model.ParseExperienceLevel(v)
		if err != nil {
			return filter.Criteria{}, err
		}
		levels = append(levels, l)
	}
	crit.Experience = filter.Constrained(levels...)

	lo, err := intParam(c, "salaryMin")
	if err != nil {
		return filter.Criteria{}, err
	}
	hi, err := intParam(c, "salaryMax")
	if err != nil {
		return filter.Criteria{}, err
	}
	crit.Salary = filter.NewSalaryBounds(lo, hi)

	if crit.PostedWithin, err = intParam(c, "postedWithin"); err != nil {
		return filter.Criteria{}, err
	}
	return crit, nil
}

// pageParams reads page and pageSize. Absent values are 1 and 0 (service
// default).
func pageParams(c *gin.Context) (page, pageSize int, err error) {
	p, err := intParam(c, "page")
	if err != nil {
		return 0, 0, err
	}
	ps, err := intParam(c, "pageSize")
	if err != nil {
		return 0, 0, err
	}
	page = 1
	if p != nil {
		page = *p
	}
	if ps != nil {
		pageSize = *ps
	}
	return page, pageSize, nil
}
