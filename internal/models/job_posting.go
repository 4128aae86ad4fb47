package models

import (
	"encoding/json"
	"time"
)

type SalaryUnit string

const (
	SalaryHourly  SalaryUnit = "HOURLY"
	SalaryDaily   SalaryUnit = "DAILY"
	SalaryWeekly  SalaryUnit = "WEEKLY"
	SalaryMonthly SalaryUnit = "MONTHLY"
)

func (u SalaryUnit) IsValid() bool {
	switch u {
	case SalaryHourly, SalaryDaily, SalaryWeekly, SalaryMonthly:
		return true
	}
	return false
}

type DurationUnit string

const (
	DurationHours  DurationUnit = "HOURS"
	DurationDays   DurationUnit = "DAYS"
	DurationWeeks  DurationUnit = "WEEKS"
	DurationMonths DurationUnit = "MONTHS"
)

func (u DurationUnit) IsValid() bool {
	switch u {
	case DurationHours, DurationDays, DurationWeeks, DurationMonths:
		return true
	}
	return false
}

type JobStatus string

const (
	StatusOpen    JobStatus = "OPEN"
	StatusActive  JobStatus = "ACTIVE"
	StatusPending JobStatus = "PENDING"
	StatusClosed  JobStatus = "CLOSED"
	StatusDeleted JobStatus = "DELETED"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusActive, StatusPending, StatusClosed, StatusDeleted:
		return true
	}
	return false
}

type Location struct {
	State     string   `json:"state"`
	District  string   `json:"district"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// JobPosting is the canonical, durable record. It is owned by the backing
// store once created and only ever built from a draft that passed
// whole-form validation.
type JobPosting struct {
	ID             string       `json:"id"`
	EmployerID     string       `json:"employer_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	SalaryAmount   float64      `json:"salary_amount"`
	SalaryUnit     SalaryUnit   `json:"salary_unit"`
	DurationAmount int          `json:"duration_amount"`
	DurationUnit   DurationUnit `json:"duration_unit"`
	Location       Location     `json:"location"`
	Status         JobStatus    `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (p JobPosting) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *JobPosting) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}
