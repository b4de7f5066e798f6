package model

import "time"

// Report describes an exported file stored in object storage.
type Report struct {
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	Rows        int       `json:"rows"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}
