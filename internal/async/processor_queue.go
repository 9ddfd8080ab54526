package async

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

// Parser is the part of the orchestrator the queue drives.
type Parser interface {
	ParseFile(ctx context.Context, data []byte, filename string, opts pipeline.Options) (*pipeline.Result, error)
}

// Handler receives every finished job, successful or not.
type Handler func(ctx context.Context, job entity.ParseJob, res *pipeline.Result, err error)

// ProcessorQueue parses queued files on a fixed pool of workers. With the
// default single worker files finish in the order they were enqueued.
type ProcessorQueue struct {
	parser  Parser
	logger  *slog.Logger
	workers int
	timeout time.Duration
	handler Handler

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// sendMu guards closed and the channel close; mu guards the job table.
	sendMu sync.RWMutex
	closed bool

	mu    sync.Mutex
	jobs  map[uuid.UUID]*entity.ParseJob
	order []uuid.UUID
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithHandler(h Handler) Option {
	return func(q *ProcessorQueue) { q.handler = h }
}

func NewProcessorQueue(parser Parser, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		parser:  parser,
		logger:  logger,
		workers: 1,
		timeout: 10 * time.Minute,
		ch:      make(chan Job, 256),
		jobs:    map[uuid.UUID]*entity.ParseJob{},
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("queue.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.process(workerID, job)
				}
				q.logger.Info("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) process(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	q.update(job.ID, func(j *entity.ParseJob) {
		j.Status = constants.JobStatusRunning
		j.StartedAt = time.Now()
	})

	var res *pipeline.Result
	data, err := os.ReadFile(job.Path)
	if err == nil {
		res, err = q.parser.ParseFile(ctx, data, filepath.Base(job.Path), job.Options)
	}

	snap := q.update(job.ID, func(j *entity.ParseJob) {
		now := time.Now()
		j.FinishedAt = &now
		switch {
		case err != nil:
			j.Status = constants.JobStatusFailed
			j.ErrorMessage = err.Error()
		case res.IsInvoice:
			j.Status = constants.JobStatusInvoice
			if res.Invoice != nil {
				j.Supplier = res.Invoice.Supplier
			}
		case res.NeedsOCR:
			j.Status = constants.JobStatusNeedsOCR
		default:
			j.Status = constants.JobStatusParsed
			j.Supplier = res.Document.Supplier
			j.Items = len(res.Document.Items)
		}
	})
	if err != nil {
		q.logger.Error("queue.job.failed", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "error", err)
	} else {
		q.logger.Info("queue.job.done", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "status", snap.Status, "items", snap.Items)
	}
	if q.handler != nil {
		q.handler(ctx, snap, res, err)
	}
}

func (q *ProcessorQueue) update(id uuid.UUID, fn func(*entity.ParseJob)) entity.ParseJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := q.jobs[id]
	fn(j)
	return *j
}

// Enqueue blocks when the buffer is full.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) (uuid.UUID, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "path", job.Path)
		return uuid.Nil, ErrClosed
	}
	q.mu.Lock()
	q.jobs[job.ID] = &entity.ParseJob{ID: job.ID, Path: job.Path, Status: constants.JobStatusQueued}
	q.order = append(q.order, job.ID)
	q.mu.Unlock()

	select {
	case q.ch <- job:
		q.logger.Info("queue.enqueue.ok", "job_id", job.ID, "path", job.Path, "force_ocr", job.Options.ForceOCR)
	default:
		q.logger.Warn("queue.enqueue.backpressure", "job_id", job.ID, "path", job.Path)
		select {
		case q.ch <- job:
		case <-ctx.Done():
			q.forget(job.ID)
			return uuid.Nil, ctx.Err()
		}
	}
	return job.ID, nil
}

func (q *ProcessorQueue) forget(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.jobs, id)
	for i, o := range q.order {
		if o == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

// Jobs returns a snapshot of every job in submission order.
func (q *ProcessorQueue) Jobs() []entity.ParseJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]entity.ParseJob, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, *q.jobs[id])
	}
	return out
}

// Job returns the current state of one job.
func (q *ProcessorQueue) Job(id uuid.UUID) (entity.ParseJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return entity.ParseJob{}, false
	}
	return *j, true
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.sendMu.Lock()
	if q.closed {
		q.sendMu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.sendMu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.ok")
	}
}
