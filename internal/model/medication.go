package model

import "time"

// Medication is a drug with its prescribed dosage and frequency.
type Medication struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Dosage      string       `json:"dosage"`
	Frequency   string       `json:"frequency"`
	Assignments []Assignment `json:"assignments,omitzero"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
