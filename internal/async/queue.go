package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

// ErrClosed is returned by Enqueue after Shutdown.
var ErrClosed = errors.New("queue is shutting down")

// Job is one file waiting to be parsed.
type Job struct {
	ID          uuid.UUID
	Path        string
	Options     pipeline.Options
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) (uuid.UUID, error)
	Shutdown(ctx context.Context)
}
