package profile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobverse/internal/profile"
)

func fullResume() *profile.Resume {
	return &profile.Resume{
		UserID:     "u1",
		Contact:    profile.Contact{Phone: "555-0100", Email: "a@b.c", Location: "Austin, TX"},
		Summary:    "Frontend engineer with eight years of React experience.",
		Experience: []profile.WorkExperience{{ID: "e1", Title: "Engineer"}},
		Education:  []profile.Education{{ID: "d1", Degree: "BSc"}},
		Skills:     []string{"React"},
	}
}

func TestCompletion_NoUser(t *testing.T) {
	assert.Equal(t, 0, profile.Completion(nil, fullResume()))
}

func TestCompletion_NoResume(t *testing.T) {
	assert.Equal(t, 20, profile.Completion(&profile.User{ID: "u1"}, nil))
}

func TestCompletion_Full(t *testing.T) {
	assert.Equal(t, 100, profile.Completion(&profile.User{ID: "u1"}, fullResume()))
}

func TestCompletion_Parts(t *testing.T) {
	u := &profile.User{ID: "u1"}
	cases := []struct {
		name   string
		mutate func(r *profile.Resume)
		want   int
	}{
		{"missing phone", func(r *profile.Resume) { r.Contact.Phone = "" }, 80},
		{"summary exactly 30 chars", func(r *profile.Resume) { r.Summary = strings.Repeat("x", 30) }, 85},
		{"summary 31 chars", func(r *profile.Resume) { r.Summary = strings.Repeat("x", 31) }, 100},
		{"no experience", func(r *profile.Resume) { r.Experience = nil }, 80},
		{"no education", func(r *profile.Resume) { r.Education = nil }, 85},
		{"no skills", func(r *profile.Resume) { r.Skills = nil }, 90},
		{"empty resume", func(r *profile.Resume) { *r = profile.Resume{} }, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := fullResume()
			tc.mutate(r)
			assert.Equal(t, tc.want, profile.Completion(u, r))
		})
	}
}
