package model

import "time"

// Patient is a person receiving treatment.
type Patient struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	DateOfBirth Date         `json:"dateOfBirth"`
	Assignments []Assignment `json:"assignments,omitzero"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
