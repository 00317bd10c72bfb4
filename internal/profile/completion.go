// Package profile scores how complete a job seeker's profile is.
package profile

import (
	"time"
	"unicode/utf8"
)

// User is the account a resume belongs to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type WorkExperience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type Education struct {
	ID          string     `json:"id"`
	Degree      string     `json:"degree"`
	Institution string     `json:"institution"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
}

type Resume struct {
	UserID     string           `json:"userId"`
	Contact    Contact          `json:"contact"`
	Summary    string           `json:"summary"`
	Experience []WorkExperience `json:"experience"`
	Education  []Education      `json:"education"`
	Skills     []string         `json:"skills"`
}

// Score weights. The total of all parts is exactly 100.
const (
	scoreAccount    = 20
	scoreContact    = 20
	scoreSummary    = 15
	scoreExperience = 20
	scoreEducation  = 15
	scoreSkills     = 10

	summaryMinLength = 30
	maxScore         = 100
)

// Completion returns a 0-100 score for the profile. A nil user scores 0; a
// user without a resume scores only the account part.
func Completion(user *User, resume *Resume) int {
	if user == nil {
		return 0
	}
	if resume == nil {
		return scoreAccount
	}

	score := scoreAccount
	if c := resume.Contact; c.Phone != "" && c.Email != "" && c.Location != "" {
		score += scoreContact
	}
	if utf8.RuneCountInString(resume.Summary) > summaryMinLength {
		score += scoreSummary
	}
	if len(resume.Experience) > 0 {
		score += scoreExperience
	}
	if len(resume.Education) > 0 {
		score += scoreEducation
	}
	if len(resume.Skills) > 0 {
		score += scoreSkills
	}
	return min(score, maxScore)
}
