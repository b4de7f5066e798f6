package model

import "time"

// Assignment links one Patient to one Medication for a number of days
// starting on StartDate. Patient and Medication are only set when the
// record was loaded with its relations.
type Assignment struct {
	ID           int64       `json:"id"`
	StartDate    Date        `json:"startDate"`
	Days         int         `json:"days"`
	PatientID    int64       `json:"patientId"`
	MedicationID int64       `json:"medicationId"`
	Patient      *Patient    `json:"patient,omitempty"`
	Medication   *Medication `json:"medication,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// EndDate is the first calendar day after the treatment window.
func (a Assignment) EndDate() Date {
	return a.StartDate.AddDays(a.Days)
}

// AssignmentWithRemainingDays decorates an Assignment with its computed
// remaining days. It is never persisted.
type AssignmentWithRemainingDays struct {
	Assignment
	RemainingDays int `json:"remainingDays"`
}
