package models

import (
	"encoding/json"
	"strings"
	"time"
)

// JobPostingDraft is the mutable scratchpad a posting is edited through.
// A draft may be invalid at any time; it only has to validate at publish.
type JobPostingDraft struct {
	ID             string       `json:"id"`
	EmployerID     string       `json:"employer_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	SalaryAmount   float64      `json:"salary_amount"`
	SalaryUnit     SalaryUnit   `json:"salary_unit"`
	DurationAmount int          `json:"duration_amount"`
	DurationUnit   DurationUnit `json:"duration_unit"`
	Location       Location     `json:"location"`
	LastModified   time.Time    `json:"last_modified"`
}

// DraftIDForJob derives the draft id used when an existing posting is
// opened for editing. The derivation is deterministic so repeated edit
// sessions land on the same draft.
func DraftIDForJob(jobID string) string {
	return jobID + "_draft"
}

// IsEmpty reports whether the draft carries no user input yet. Empty
// unpublished drafts are discarded on session teardown instead of being
// kept for resumption.
func (d *JobPostingDraft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		d.SalaryAmount == 0 &&
		d.DurationAmount == 0 &&
		strings.TrimSpace(d.Location.State) == "" &&
		strings.TrimSpace(d.Location.District) == ""
}

// ToPosting builds a canonical posting candidate from the draft. Newly
// published postings go live immediately, so the candidate status is ACTIVE.
func (d *JobPostingDraft) ToPosting(id string, now time.Time) *JobPosting {
	return &JobPosting{
		ID:             id,
		EmployerID:     d.EmployerID,
		Title:          d.Title,
		Description:    d.Description,
		SalaryAmount:   d.SalaryAmount,
		SalaryUnit:     d.SalaryUnit,
		DurationAmount: d.DurationAmount,
		DurationUnit:   d.DurationUnit,
		Location:       d.Location,
		Status:         StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// DraftFromPosting maps an existing posting back into a draft for editing.
func DraftFromPosting(p *JobPosting, now time.Time) *JobPostingDraft {
	return &JobPostingDraft{
		ID:             DraftIDForJob(p.ID),
		EmployerID:     p.EmployerID,
		Title:          p.Title,
		Description:    p.Description,
		SalaryAmount:   p.SalaryAmount,
		SalaryUnit:     p.SalaryUnit,
		DurationAmount: p.DurationAmount,
		DurationUnit:   p.DurationUnit,
		Location:       p.Location,
		LastModified:   now,
	}
}

func (d JobPostingDraft) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *JobPostingDraft) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
