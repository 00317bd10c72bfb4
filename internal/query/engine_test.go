package query_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobverse/internal/filter"
	"jobverse/internal/model"
	"jobverse/internal/query"
	"jobverse/internal/store"
)

var fixedNow = time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC)

func newEngine() *query.Engine {
	return query.NewEngine(func() time.Time { return fixedNow })
}

func intPtr(v int) *int { return &v }

func ids(jobs []model.JobRecord) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func titles(jobs []model.JobRecord) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}

// ── Scenarios over the sample corpus ───────────────────────────────────────

func TestQuery_EmptyCriteriaPaginatesWholeCorpus(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()

	p1 := e.Query(corpus, filter.Criteria{}, 1, 10)
	assert.Equal(t, query.Pagination{CurrentPage: 1, TotalPages: 3, TotalItems: 23}, p1.Pagination)
	assert.Len(t, p1.Items, 10)

	p2 := e.Query(corpus, filter.Criteria{}, 2, 10)
	assert.Len(t, p2.Items, 10)

	p3 := e.Query(corpus, filter.Criteria{}, 3, 10)
	assert.Len(t, p3.Items, 3)

	all := append(append(append([]model.JobRecord{}, p1.Items...), p2.Items...), p3.Items...)
	assert.Equal(t, ids(corpus), ids(all))
}

func TestQuery_InternshipType(t *testing.T) {
	c := filter.Criteria{Types: filter.Constrained(model.JobTypeInternship)}
	p := newEngine().Query(store.SeedJobs(), c, 1, 10)

	assert.Equal(t, 1, p.Pagination.TotalItems)
	assert.Equal(t, []string{"Software Engineer Intern"}, titles(p.Items))
}

func TestQuery_SkillsExactMatch(t *testing.T) {
	c := filter.Criteria{Skills: filter.Constrained("React")}
	p := newEngine().Query(store.SeedJobs(), c, 1, 10)

	assert.Equal(t, []string{"Frontend Developer", "Full Stack Developer"}, titles(p.Items))
}

// ── Dimension semantics ────────────────────────────────────────────────────

func TestQuery_SkillsAreOredWithinDimension(t *testing.T) {
	c := filter.Criteria{Skills: filter.Constrained("React", "COBOL")}
	got := newEngine().Filter(store.SeedJobs(), c)
	assert.Equal(t, []string{"1", "7"}, ids(got))

	c = filter.Criteria{Skills: filter.Constrained("React", "Python")}
	got = newEngine().Filter(store.SeedJobs(), c)
	assert.Equal(t, []string{"1", "7", "8", "11"}, ids(got))
}

func TestQuery_DimensionsAreAnded(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()

	onlyType := filter.Criteria{Types: filter.Constrained(model.JobTypeFullTime)}
	onlyCategory := filter.Criteria{Categories: filter.Constrained("Development")}
	both := filter.Criteria{
		Types:      onlyType.Types,
		Categories: onlyCategory.Categories,
	}

	a := ids(e.Filter(corpus, onlyType))
	b := ids(e.Filter(corpus, onlyCategory))
	got := ids(e.Filter(corpus, both))

	require.NotEmpty(t, got)
	for _, id := range got {
		assert.Contains(t, a, id)
		assert.Contains(t, b, id)
	}
	assert.Equal(t, []string{"1", "2", "6", "7"}, got)
}

func TestQuery_QueryMatchesTitleDescriptionOrEmployer(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()

	byEmployer := e.Filter(corpus, filter.Criteria{Query: "finance pro"})
	assert.Equal(t, []string{"3", "10", "11"}, ids(byEmployer))

	byDescription := e.Filter(corpus, filter.Criteria{Query: "REACT NATIVE"})
	assert.Equal(t, []string{"19"}, ids(byDescription))
}

func TestQuery_LocationIsCaseInsensitiveSubstring(t *testing.T) {
	got := newEngine().Filter(store.SeedJobs(), filter.Criteria{Location: "austin"})
	assert.Equal(t, []string{"7", "23"}, ids(got))
}

func TestQuery_ExperienceLevel(t *testing.T) {
	c := filter.Criteria{Experience: filter.Constrained(model.ExperienceExecutive)}
	got := newEngine().Filter(store.SeedJobs(), c)
	assert.Equal(t, []string{"Engineering Manager"}, titles(got))
}

func TestQuery_ExperienceSkipsJobsWithoutLevel(t *testing.T) {
	corpus := []model.JobRecord{{ID: "a"}, {ID: "b", ExperienceLevel: model.ExperienceMid}}
	c := filter.Criteria{Experience: filter.Constrained(model.ExperienceMid)}
	assert.Equal(t, []string{"b"}, ids(newEngine().Filter(corpus, c)))
}

func TestQuery_SalaryRequiresSalary(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()

	for _, bounds := range []*filter.SalaryBounds{
		{Min: intPtr(0)},
		{Max: intPtr(1_000_000)},
		{Min: intPtr(0), Max: intPtr(1_000_000)},
	} {
		got := e.Filter(corpus, filter.Criteria{Salary: bounds})
		for _, j := range got {
			assert.NotNil(t, j.Salary, "job %s has no salary", j.ID)
		}
		assert.Len(t, got, 20)
	}
}

func TestQuery_SalaryContainment(t *testing.T) {
	c := filter.Criteria{Salary: &filter.SalaryBounds{Min: intPtr(100000), Max: intPtr(140000)}}
	got := newEngine().Filter(store.SeedJobs(), c)
	assert.Equal(t, []string{"2", "6", "19"}, ids(got))
}

func TestQuery_PostedWithinBoundary(t *testing.T) {
	n := 7
	corpus := []model.JobRecord{
		{ID: "exact", PostedAt: fixedNow.AddDate(0, 0, -n)},
		{ID: "inside", PostedAt: fixedNow.AddDate(0, 0, -n).Add(time.Second)},
		{ID: "one-second-early", PostedAt: fixedNow.AddDate(0, 0, -n).Add(-time.Second)},
		{ID: "day-early", PostedAt: fixedNow.AddDate(0, 0, -(n + 1))},
	}
	got := newEngine().Filter(corpus, filter.Criteria{PostedWithin: intPtr(n)})
	assert.Equal(t, []string{"exact", "inside"}, ids(got))
}

func TestQuery_PostedWithinOverSampleCorpus(t *testing.T) {
	// Cutoff 2023-04-12 12:00: only jobs posted on the 13th or 14th qualify.
	got := newEngine().Filter(store.SeedJobs(), filter.Criteria{PostedWithin: intPtr(3)})
	assert.Equal(t, []string{"8", "18"}, ids(got))
}

func TestQuery_PostedWithinZeroIsApplied(t *testing.T) {
	// Zero is a present dimension with the cutoff at now, not "any time".
	corpus := []model.JobRecord{
		{ID: "now", PostedAt: fixedNow},
		{ID: "earlier", PostedAt: fixedNow.Add(-time.Second)},
	}
	got := newEngine().Filter(corpus, filter.Criteria{PostedWithin: intPtr(0)})
	assert.Equal(t, []string{"now"}, ids(got))

	assert.Empty(t, newEngine().Filter(store.SeedJobs(), filter.Criteria{PostedWithin: intPtr(0)}))
	assert.Len(t, newEngine().Filter(store.SeedJobs(), filter.Criteria{}), 23)
}

// ── Pagination ─────────────────────────────────────────────────────────────

func TestQuery_PaginationTotalsAreConsistent(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()
	filters := []filter.Criteria{
		{},
		{Types: filter.Constrained(model.JobTypeFullTime)},
		{Categories: filter.Constrained("Development", "Design")},
		{Skills: filter.Constrained("COBOL")},
	}
	for _, c := range filters {
		for _, size := range []int{1, 3, 10, 50} {
			first := e.Query(corpus, c, 1, size)
			total := first.Pagination.TotalItems
			assert.Equal(t, (total+size-1)/size, first.Pagination.TotalPages)

			sum := 0
			for p := 1; p <= first.Pagination.TotalPages; p++ {
				sum += len(e.Query(corpus, c, p, size).Items)
			}
			assert.Equal(t, total, sum)
		}
	}
}

func TestQuery_OutOfRangePageIsEmpty(t *testing.T) {
	p := newEngine().Query(store.SeedJobs(), filter.Criteria{}, 8, 10)
	require.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.Pagination.TotalPages)
	assert.Equal(t, 8, p.Pagination.CurrentPage)
}

func TestQuery_HugePageDoesNotOverflow(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()

	for _, page := range []int{math.MaxInt, math.MaxInt / 10, 1 << 60} {
		p := e.Query(corpus, filter.Criteria{}, page, 10)
		require.NotNil(t, p.Items)
		assert.Empty(t, p.Items, "page %d", page)
		assert.Equal(t, query.Pagination{CurrentPage: page, TotalPages: 3, TotalItems: 23}, p.Pagination)
	}
}

func TestQuery_HugePageSize(t *testing.T) {
	e := newEngine()
	corpus := store.SeedJobs()

	p := e.Query(corpus, filter.Criteria{}, 1, math.MaxInt)
	assert.Len(t, p.Items, 23)
	assert.Equal(t, query.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 23}, p.Pagination)

	p = e.Query(corpus, filter.Criteria{}, 3, math.MaxInt)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Pagination.TotalPages)

	p = e.Query(corpus, filter.Criteria{}, math.MaxInt, math.MaxInt)
	assert.Empty(t, p.Items)
}

func TestQuery_NoMatchesIsNotAnError(t *testing.T) {
	c := filter.Criteria{Skills: filter.Constrained("COBOL")}
	p := newEngine().Query(store.SeedJobs(), c, 1, 10)
	assert.Empty(t, p.Items)
	assert.Equal(t, query.Pagination{CurrentPage: 1, TotalPages: 0, TotalItems: 0}, p.Pagination)
}

func TestQuery_NormalisesPageAndSize(t *testing.T) {
	p := newEngine().Query(store.SeedJobs(), filter.Criteria{}, 0, 0)
	assert.Equal(t, 1, p.Pagination.CurrentPage)
	assert.Len(t, p.Items, query.DefaultPageSize)
}

func TestQuery_DoesNotMutateCorpus(t *testing.T) {
	corpus := store.SeedJobs()
	before := ids(corpus)
	newEngine().Filter(corpus, filter.Criteria{Skills: filter.Constrained("SQL")})
	assert.Equal(t, before, ids(corpus))
}

func TestLookup(t *testing.T) {
	corpus := store.SeedJobs()
	j, err := query.Lookup(corpus, "8")
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer Intern", j.Title)

	_, err = query.Lookup(corpus, "404")
	assert.ErrorIs(t, err, model.ErrJobNotFound)
}

// ── Suggestions ────────────────────────────────────────────────────────────

func TestSimilar(t *testing.T) {
	corpus := store.SeedJobs()
	target, err := query.Lookup(corpus, "1")
	require.NoError(t, err)

	got := query.Similar(target, corpus, 0)
	assert.Equal(t, []string{"2", "6", "7"}, ids(got))
}

func TestRecommend(t *testing.T) {
	corpus := store.SeedJobs()

	got := query.Recommend([]string{"Figma"}, corpus, 3)
	assert.Equal(t, []string{"4", "18"}, ids(got))

	got = query.Recommend(nil, corpus, 0)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}
