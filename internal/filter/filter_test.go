package filter_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobverse/internal/filter"
	"jobverse/internal/model"
)

func intPtr(v int) *int { return &v }

// ── Set ────────────────────────────────────────────────────────────────────

func TestSet_ZeroValueIsUnconstrained(t *testing.T) {
	var s filter.Set[string]
	assert.False(t, s.IsConstrained())
	assert.Nil(t, s.Values())
}

func TestSet_ConstrainedWithNoValuesIsUnconstrained(t *testing.T) {
	assert.False(t, filter.Constrained[string]().IsConstrained())
}

func TestSet_ConstrainedDropsDuplicatesKeepsOrder(t *testing.T) {
	s := filter.Constrained("React", "Go", "React")
	assert.Equal(t, []string{"React", "Go"}, s.Values())
}

func TestSet_ToggleAddThenRemove(t *testing.T) {
	s := filter.Unconstrained[string]().Toggle("Go")
	require.True(t, s.IsConstrained())
	assert.True(t, s.Contains("Go"))

	s = s.Toggle("Go")
	assert.False(t, s.IsConstrained())
}

func TestSet_ToggleIsImmutable(t *testing.T) {
	a := filter.Constrained("Go")
	b := a.Toggle("Rust")
	assert.Equal(t, []string{"Go"}, a.Values())
	assert.Equal(t, []string{"Go", "Rust"}, b.Values())
}

func TestSet_Intersects(t *testing.T) {
	s := filter.Constrained("React", "COBOL")
	assert.True(t, s.Intersects([]string{"TypeScript", "React"}))
	assert.False(t, s.Intersects([]string{"Go"}))
	assert.False(t, s.Intersects(nil))
}

func TestSet_JSONEmptyArrayIsUnconstrained(t *testing.T) {
	var s filter.Set[string]
	require.NoError(t, json.Unmarshal([]byte(`[]`), &s))
	assert.False(t, s.IsConstrained())
}

// ── Criteria ───────────────────────────────────────────────────────────────

func TestCriteria_ZeroValueIsEmpty(t *testing.T) {
	var c filter.Criteria
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Keys())
	assert.False(t, c.HasActiveFilters())
}

func TestCriteria_MarshalOmitsAbsentKeys(t *testing.T) {
	c, err := filter.Criteria{}.Toggle(filter.DimensionSkills, "React")
	require.NoError(t, err)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":["React"]}`, string(b))

	c, err = c.Toggle(filter.DimensionSkills, "React")
	require.NoError(t, err)
	b, err = json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestCriteria_UnmarshalNormalises(t *testing.T) {
	var c filter.Criteria
	err := json.Unmarshal([]byte(`{"query":"  go ","type":[],"skills":["Go","Go"],"salary":{}}`), &c)
	require.NoError(t, err)

	assert.Equal(t, "go", c.Query)
	assert.False(t, c.Types.IsConstrained())
	assert.Equal(t, []string{"Go"}, c.Skills.Values())
	assert.Nil(t, c.Salary)
}

func TestCriteria_UnmarshalRejectsUnknownType(t *testing.T) {
	var c filter.Criteria
	assert.Error(t, json.Unmarshal([]byte(`{"type":["gig"]}`), &c))
}

func TestCriteria_ToggleUnknownDimension(t *testing.T) {
	_, err := filter.Criteria{}.Toggle("colour", "red")
	assert.Error(t, err)
}

func TestCriteria_ToggleRejectsUnknownJobType(t *testing.T) {
	_, err := filter.Criteria{}.Toggle(filter.DimensionType, "gig")
	assert.Error(t, err)
}

func TestCriteria_CloneIsDeep(t *testing.T) {
	c := filter.Criteria{
		Salary:       filter.NewSalaryBounds(intPtr(1), intPtr(2)),
		PostedWithin: intPtr(7),
	}
	d := c.Clone()
	*d.Salary.Min = 100
	*d.PostedWithin = 30

	assert.Equal(t, 1, *c.Salary.Min)
	assert.Equal(t, 7, *c.PostedWithin)
}

func TestParseDimension(t *testing.T) {
	for _, s := range []string{"type", "category", "skills", "experience"} {
		_, err := filter.ParseDimension(s)
		assert.NoError(t, err)
	}
	_, err := filter.ParseDimension("salary")
	assert.Error(t, err)
}

func TestHasActiveFilters_SalaryDefaultIsInactive(t *testing.T) {
	c := filter.Criteria{Salary: filter.NewSalaryBounds(intPtr(0), intPtr(200000))}
	assert.False(t, c.HasActiveFilters())
	assert.False(t, c.IsEmpty(), "default salary is still a present key")

	c.Salary = filter.NewSalaryBounds(intPtr(50000), intPtr(200000))
	assert.True(t, c.HasActiveFilters())
}

func TestHasActiveFilters_PerDimension(t *testing.T) {
	cases := map[string]filter.Criteria{
		"query":        {Query: "go"},
		"location":     {Location: "remote"},
		"type":         {Types: filter.Constrained(model.JobTypeContract)},
		"category":     {Categories: filter.Constrained("Design")},
		"skills":       {Skills: filter.Constrained("Go")},
		"experience":   {Experience: filter.Constrained(model.ExperienceSenior)},
		"postedWithin": {PostedWithin: intPtr(7)},
	}
	for name, c := range cases {
		assert.True(t, c.HasActiveFilters(), name)
		assert.Equal(t, []string{name}, c.Keys(), name)
	}
}

// ── State ──────────────────────────────────────────────────────────────────

func TestState_ToggleOnThenOffRemovesKey(t *testing.T) {
	s := filter.NewState()

	s, err := s.Toggle(filter.DimensionType, "full-time")
	require.NoError(t, err)
	assert.Equal(t, []string{"type"}, s.Criteria.Keys())

	s, err = s.Toggle(filter.DimensionType, "full-time")
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	b, err := json.Marshal(s.Criteria)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"type"`)
}

func TestState_MutationResetsPage(t *testing.T) {
	s, err := filter.NewState().SetPage(3)
	require.NoError(t, err)
	require.Equal(t, 3, s.Page)

	s = s.SetQuery("developer")
	assert.Equal(t, 1, s.Page)
}

func TestState_SetPageKeepsCriteria(t *testing.T) {
	s := filter.NewState().SetLocation("Boston")
	s, err := s.SetPage(2)
	require.NoError(t, err)
	assert.Equal(t, "Boston", s.Criteria.Location)
	assert.Equal(t, 2, s.Page)
}

func TestState_SetPageRejectsZero(t *testing.T) {
	_, err := filter.NewState().SetPage(0)
	assert.Error(t, err)
}

func TestState_BlankTextRemovesKey(t *testing.T) {
	s := filter.NewState().SetQuery("design").SetQuery("   ")
	assert.True(t, s.IsEmpty())
}

func TestState_PreviewDoesNotCommit(t *testing.T) {
	s := filter.NewState()
	before := s.Seq

	s = s.PreviewSalary(filter.SalaryRange{Min: 80000, Max: 120000})
	assert.Nil(t, s.Criteria.Salary)
	assert.Equal(t, before, s.Seq)

	s = s.CommitSalary()
	require.NotNil(t, s.Criteria.Salary)
	assert.Equal(t, 80000, *s.Criteria.Salary.Min)
	assert.Equal(t, 120000, *s.Criteria.Salary.Max)
	assert.Equal(t, before+1, s.Seq)
}

func TestState_ClearIsCanonicalEmpty(t *testing.T) {
	s := filter.NewState().
		SetQuery("go").
		SetPostedWithin(7).
		PreviewSalary(filter.SalaryRange{Min: 1, Max: 2}).
		CommitSalary()
	s, err := s.Toggle(filter.DimensionSkills, "Go")
	require.NoError(t, err)

	s = s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, filter.DefaultSalaryRange, s.Preview)
	assert.Equal(t, 1, s.Page)

	b, err := json.Marshal(s.Criteria)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestState_PostedWithinSetAndClear(t *testing.T) {
	s := filter.NewState().SetPostedWithin(14)
	require.NotNil(t, s.Criteria.PostedWithin)
	assert.Equal(t, 14, *s.Criteria.PostedWithin)

	s = s.ClearPostedWithin()
	assert.Nil(t, s.Criteria.PostedWithin)
}

func TestState_CyclesBetweenEmptyAndConstrained(t *testing.T) {
	s := filter.NewState()
	for i := 0; i < 3; i++ {
		s = s.SetLocation("Remote")
		assert.False(t, s.IsEmpty())
		s = s.Clear()
		assert.True(t, s.IsEmpty())
	}
	assert.Equal(t, uint64(6), s.Seq)
}

func TestState_JSONRoundTripKeepsSeqAndPreview(t *testing.T) {
	s := filter.NewState().PreviewSalary(filter.SalaryRange{Min: 5, Max: 10}).SetQuery("nurse")
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got filter.State
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, s.Seq, got.Seq)
	assert.Equal(t, s.Preview, got.Preview)
	assert.Equal(t, "nurse", got.Criteria.Query)
}

// ── Sequencer ──────────────────────────────────────────────────────────────

func TestSequencer_DropsOlderResults(t *testing.T) {
	var seq filter.Sequencer
	assert.True(t, seq.Accept(2))
	assert.False(t, seq.Accept(1))
	assert.True(t, seq.Accept(2))
	assert.True(t, seq.Accept(5))
	assert.Equal(t, uint64(5), seq.Latest())
}

func TestSequencer_ConcurrentAccept(t *testing.T) {
	var (
		seq filter.Sequencer
		wg  sync.WaitGroup
	)
	for i := uint64(1); i <= 50; i++ {
		wg.Add(1)
		go func(n uint64) {
			defer wg.Done()
			seq.Accept(n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, uint64(50), seq.Latest())
}
