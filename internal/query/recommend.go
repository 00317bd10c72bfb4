package query

import "jobverse/internal/model"

// DefaultSuggestionLimit is how many similar or recommended jobs are shown.
const DefaultSuggestionLimit = 3

// Similar returns up to limit jobs, in corpus order, other than target that
// share its category or at least one of its skills.
func Similar(target model.JobRecord, corpus []model.JobRecord, limit int) []model.JobRecord {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	out := make([]model.JobRecord, 0, limit)
	for _, j := range corpus {
		if len(out) == limit {
			break
		}
		if j.ID == target.ID {
			continue
		}
		if j.Category == target.Category || sharesSkill(j, target.Skills) {
			out = append(out, j)
		}
	}
	return out
}

// Recommend returns up to limit jobs, in corpus order, that list any of
// skills. With no skills it falls back to the head of the corpus.
func Recommend(skills []string, corpus []model.JobRecord, limit int) []model.JobRecord {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	out := make([]model.JobRecord, 0, limit)
	for _, j := range corpus {
		if len(out) == limit {
			break
		}
		if len(skills) == 0 || sharesSkill(j, skills) {
			out = append(out, j)
		}
	}
	return out
}

func sharesSkill(j model.JobRecord, skills []string) bool {
	for _, s := range skills {
		if j.HasSkill(s) {
			return true
		}
	}
	return false
}
