package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/packlist/constants"
)

// ParseJob tracks one file through the queue.
type ParseJob struct {
	ID           uuid.UUID           `json:"id"`
	Path         string              `json:"path"`
	Status       constants.JobStatus `json:"status"`
	Supplier     constants.Supplier  `json:"supplier,omitempty"`
	Items        int                 `json:"items"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
}
