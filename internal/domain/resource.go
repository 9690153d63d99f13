package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a piece of shared farm equipment or supply on the community
// board. Status is free text, e.g. "Available" or "Borrowed".
type Resource struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	Owner         string    `json:"owner"`
	Contact       string    `json:"contact"`
	Location      string    `json:"location"`
	NextAvailable string    `json:"next_available"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
