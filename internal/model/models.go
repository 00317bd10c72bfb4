// Package model defines the job-board records shared by every layer of the
// board service.
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	// ErrJobNotFound is returned when a job id is not in the corpus.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists is returned when creating a job whose id is taken.
	ErrJobExists = errors.New("job already exists")
)

// JobType mirrors the job_type column in PostgreSQL.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

// JobStatus mirrors the job_status column in PostgreSQL.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

// ExperienceLevel is the seniority a posting targets.
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// ParseJobType converts a raw string to a JobType, returning an error for
// unknown values.
func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeRemote:
		return t, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// ParseJobStatus converts a raw string to a JobStatus.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobStatusOpen, JobStatusClosed, JobStatusDraft:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// ParseExperienceLevel converts a raw string to an ExperienceLevel.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	l := ExperienceLevel(s)
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive:
		return l, nil
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

// Employer is the company that owns a posting.
type Employer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Size        string `json:"size"`
	FoundedYear int    `json:"foundedYear,omitempty"`
	OwnerID     string `json:"ownerId"`
}

// Salary is the advertised pay band of a posting.
// Validate requires 0 <= Min <= Max for jobs written through the API.
type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// JobRecord is a job posting as read by the query engine.
type JobRecord struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Employer         Employer        `json:"company"`
	Location         string          `json:"location"`
	Type             JobType         `json:"type"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	Requirements     []string        `json:"requirements"`
	Responsibilities []string        `json:"responsibilities"`
	Salary           *Salary         `json:"salary,omitempty"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel,omitempty"`
	PostedAt         time.Time       `json:"postedAt"`
	Deadline         *time.Time      `json:"deadline,omitempty"`
	Status           JobStatus       `json:"status"`
	Skills           []string        `json:"skills"`
	Applications     int             `json:"applications"`
	Views            int             `json:"views"`
}

// Clone returns a deep copy so callers can hand records out without sharing
// slices or pointers with the store.
func (j JobRecord) Clone() JobRecord {
	c := j
	c.Requirements = slices.Clone(j.Requirements)
	c.Responsibilities = slices.Clone(j.Responsibilities)
	c.Skills = slices.Clone(j.Skills)
	if j.Salary != nil {
		s := *j.Salary
		c.Salary = &s
	}
	if j.Deadline != nil {
		d := *j.Deadline
		c.Deadline = &d
	}
	return c
}

// HasSkill reports whether the posting lists skill (exact match).
func (j JobRecord) HasSkill(skill string) bool {
	return slices.Contains(j.Skills, skill)
}

// IsExpired reports whether an open posting's deadline is before now.
func (j JobRecord) IsExpired(now time.Time) bool {
	return j.Status == JobStatusOpen && j.Deadline != nil && j.Deadline.Before(now)
}

// Validate checks the fields an employer must supply when writing a posting.
func (j JobRecord) Validate() error {
	switch {
	case strings.TrimSpace(j.Title) == "":
		return errors.New("title is required")
	case strings.TrimSpace(j.Employer.Name) == "":
		return errors.New("company name is required")
	case strings.TrimSpace(j.Location) == "":
		return errors.New("location is required")
	case strings.TrimSpace(j.Category) == "":
		return errors.New("category is required")
	}
	if _, err := ParseJobType(string(j.Type)); err != nil {
		return err
	}
	if _, err := ParseJobStatus(string(j.Status)); err != nil {
		return err
	}
	if j.ExperienceLevel != "" {
		if _, err := ParseExperienceLevel(string(j.ExperienceLevel)); err != nil {
			return err
		}
	}
	if j.Salary != nil && (j.Salary.Min < 0 || j.Salary.Min > j.Salary.Max) {
		return fmt.Errorf("salary range %d-%d is invalid", j.Salary.Min, j.Salary.Max)
	}
	return nil
}

// JobPatch carries a partial update of a posting. Nil fields are left
// unchanged; RemoveSalary drops the salary band.
type JobPatch struct {
	Title            *string          `json:"title,omitempty"`
	Employer         *Employer        `json:"company,omitempty"`
	Location         *string          `json:"location,omitempty"`
	Type             *JobType         `json:"type,omitempty"`
	Category         *string          `json:"category,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Requirements     *[]string        `json:"requirements,omitempty"`
	Responsibilities *[]string        `json:"responsibilities,omitempty"`
	Salary           *Salary          `json:"salary,omitempty"`
	RemoveSalary     bool             `json:"removeSalary,omitempty"`
	ExperienceLevel  *ExperienceLevel `json:"experienceLevel,omitempty"`
	Deadline         *time.Time       `json:"deadline,omitempty"`
	Status           *JobStatus       `json:"status,omitempty"`
	Skills           *[]string        `json:"skills,omitempty"`
}

// Apply returns j with the patch applied. Identity, posting time and the
// counters are never patched.
func (p JobPatch) Apply(j JobRecord) JobRecord {
	out := j.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Employer != nil {
		owner := out.Employer.OwnerID
		out.Employer = *p.Employer
		out.Employer.OwnerID = owner
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Requirements != nil {
		out.Requirements = slices.Clone(*p.Requirements)
	}
	if p.Responsibilities != nil {
		out.Responsibilities = slices.Clone(*p.Responsibilities)
	}
	if p.RemoveSalary {
		out.Salary = nil
	} else if p.Salary != nil {
		s := *p.Salary
		out.Salary = &s
	}
	if p.ExperienceLevel != nil {
		out.ExperienceLevel = *p.ExperienceLevel
	}
	if p.Deadline != nil {
		d := *p.Deadline
		out.Deadline = &d
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Skills != nil {
		out.Skills = slices.Clone(*p.Skills)
	}
	return out
}
