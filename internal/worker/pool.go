package worker

import (
	"context"
	"log"

	"flashscroll-backend/internal/jobs"
	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/repository"
	"flashscroll-backend/internal/services"
	"flashscroll-backend/internal/session"
)

// Pool drains the generation queue. Each job runs the
// idle→loading→success/error lifecycle: status changes land in the job
// record and are pushed to the renderer over the hub.
type Pool struct {
	jobStore    *jobs.Store
	gemini      *services.GeminiService
	deckRepo    *repository.DeckRepo
	publisher   session.Publisher
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	jobStore *jobs.Store,
	gemini *services.GeminiService,
	deckRepo *repository.DeckRepo,
	publisher session.Publisher,
	workerCount int,
) *Pool {
	return &Pool{
		jobStore:    jobStore,
		gemini:      gemini,
		deckRepo:    deckRepo,
		publisher:   publisher,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		job, err := p.jobStore.Dequeue(ctx)
		if err != nil {
			log.Printf("Worker %d: dequeue failed: %v", id, err)
			continue
		}
		if job == nil {
			continue // empty window, poll again
		}

		log.Printf("Worker %d: processing generation job %s for deck %s", id, job.ID, job.DeckID)
		p.process(ctx, job)
	}
}

func (p *Pool) process(ctx context.Context, job *models.Job) {
	job.Status = models.JobProcessing
	if err := p.jobStore.Update(ctx, job); err != nil {
		log.Printf("WARNING: failed to mark job %s processing: %v", job.ID, err)
	}
	p.publishStatus(ctx, job)

	pairs, err := p.gemini.GenerateCards(ctx, job.Text)
	if err != nil {
		p.fail(ctx, job, err)
		return
	}
	if len(pairs) == 0 {
		p.fail(ctx, job, &services.GenerationError{Message: "no cards could be generated from the text"})
		return
	}

	// merge new cards ahead of existing ones
	if _, err := p.deckRepo.PrependCards(ctx, job.DeckID, pairs); err != nil {
		p.fail(ctx, job, err)
		return
	}

	job.Status = models.JobSuccess
	job.CardCount = len(pairs)
	job.Error = ""
	if err := p.jobStore.Update(ctx, job); err != nil {
		log.Printf("WARNING: failed to mark job %s success: %v", job.ID, err)
	}

	if p.publisher != nil {
		p.publisher.Publish(ctx, models.WSMessage{Type: models.WSDeckUpdated, Payload: map[string]string{"deck_id": job.DeckID}})
	}
	p.publishStatus(ctx, job)
}

func (p *Pool) fail(ctx context.Context, job *models.Job, cause error) {
	log.Printf("Generation job %s failed: %v", job.ID, cause)

	job.Status = models.JobError
	job.Error = cause.Error()
	if err := p.jobStore.Update(ctx, job); err != nil {
		log.Printf("WARNING: failed to mark job %s error: %v", job.ID, err)
	}
	p.publishStatus(ctx, job)
}

func (p *Pool) publishStatus(ctx context.Context, job *models.Job) {
	if p.publisher == nil {
		return
	}
	p.publisher.Publish(ctx, models.WSMessage{
		Type: models.WSGenerationStatus,
		Payload: models.GenerationStatusPayload{
			JobID:     job.ID,
			Status:    job.Status,
			CardCount: job.CardCount,
			Error:     job.Error,
		},
	})
}
