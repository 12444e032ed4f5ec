package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

// requeueGracePeriod protects freshly enqueued evaluations from the pending
// poller: a queued row younger than this is assumed to be waiting in the job
// channel already, not orphaned by a restart.
const requeueGracePeriod = 30 * time.Second

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evalID uuid.UUID)
}

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	jobQueue         chan uuid.UUID
	concurrency      int
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
) Worker {
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting evaluation worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Requeue evaluations that were left queued across a restart.
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping evaluation worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Evaluation worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(evalID uuid.UUID) {
	select {
	case w.jobQueue <- evalID:
		log.Printf("📥 Evaluation %s enqueued\n", evalID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue evaluation %s\n", evalID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case evalID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing evaluation %s\n", workerID, evalID)
			if err := w.evaluatorService.EvaluateAnswer(ctx, evalID); err != nil {
				log.Printf("❌ Worker #%d failed evaluation %s: %v\n", workerID, evalID, err)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending evaluations: %v\n", err)
				continue
			}

			for _, job := range staleQueuedJobs(pendingJobs, time.Now()) {
				w.EnqueueJob(job.ID)
			}
		}
	}
}

// staleQueuedJobs filters out rows still inside the requeue grace period so a
// job sitting in the channel is not dispatched twice.
func staleQueuedJobs(jobs []models.AnswerEvaluation, now time.Time) []models.AnswerEvaluation {
	var stale []models.AnswerEvaluation
	for _, job := range jobs {
		if now.Sub(job.UpdatedAt) >= requeueGracePeriod {
			stale = append(stale, job)
		}
	}
	return stale
}
