package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"flashscroll-backend/internal/models"
)

const (
	// Queue is the generation work queue.
	Queue = "queue:card-generation"
	// InFlightKey enforces one generation request in flight at a time.
	// It carries a TTL as a stuck-job safety valve, not a cancellation
	// mechanism: jobs are never aborted once enqueued.
	InFlightKey = "flashscroll:generation-inflight"

	recordTTL     = 24 * time.Hour
	inFlightTTL   = 10 * time.Minute
	dequeueWindow = 2 * time.Second
)

// Store keeps generation job records as Redis JSON documents and owns
// the work queue.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func recordKey(id string) string { return "flashscroll:job:" + id }

// Enqueue registers the job and pushes it onto the queue. It fails
// with ErrInFlight while another generation is still running.
func (s *Store) Enqueue(ctx context.Context, job *models.Job) error {
	job.ID = uuid.NewString()
	job.Status = models.JobPending
	job.CreatedAt = time.Now()

	ok, err := s.client.SetNX(ctx, InFlightKey, job.ID, inFlightTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrInFlight
	}

	if err := s.save(ctx, job); err != nil {
		s.client.Del(ctx, InFlightKey)
		return err
	}

	data, _ := json.Marshal(job)
	if err := s.client.LPush(ctx, Queue, string(data)).Err(); err != nil {
		s.client.Del(ctx, InFlightKey)
		return err
	}
	return nil
}

// Dequeue blocks briefly for the next job. A nil job with nil error
// means the window elapsed with an empty queue.
func (s *Store) Dequeue(ctx context.Context) (*models.Job, error) {
	res, err := s.client.BRPop(ctx, dequeueWindow, Queue).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("malformed BRPop reply")
	}

	var job models.Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("malformed job payload: %w", err)
	}
	return &job, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Job, error) {
	raw, err := s.client.Get(ctx, recordKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var job models.Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Update rewrites the job record. Terminal statuses also release the
// in-flight slot.
func (s *Store) Update(ctx context.Context, job *models.Job) error {
	if err := s.save(ctx, job); err != nil {
		return err
	}
	if job.Status == models.JobSuccess || job.Status == models.JobError {
		s.client.Del(ctx, InFlightKey)
	}
	return nil
}

func (s *Store) save(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, recordKey(job.ID), data, recordTTL).Err()
}

var (
	ErrInFlight = errors.New("a generation request is already in flight")
	ErrNotFound = errors.New("job not found")
)
