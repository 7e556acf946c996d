package workers

import (
	"context"
	"log"
	"time"

	"github.com/oguzk/propmatch/internal/services"
)

// MailWorker runs assistant processing passes on a fixed interval.
// The workflow assumes a single synchronous writer over the directories
// and the viewing ledger, so deployments run exactly one of these.
type MailWorker struct {
	*BaseWorker
	assistant *services.AssistantService
	interval  time.Duration
}

// NewMailWorker creates a new mail worker
func NewMailWorker(workerID string, assistant *services.AssistantService, interval time.Duration) *MailWorker {
	return &MailWorker{
		BaseWorker: NewBaseWorker(workerID),
		assistant:  assistant,
		interval:   interval,
	}
}

// Start begins the mail worker process
func (w *MailWorker) Start(ctx context.Context) error {
	w.Running = true
	log.Printf("Mail worker %s started", w.WorkerID)

	for {
		if err := w.assistant.ProcessRun(ctx); err != nil {
			log.Printf("Mail worker %s pass failed: %v", w.WorkerID, err)
		}

		select {
		case <-ctx.Done():
			log.Printf("Mail worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			log.Printf("Mail worker %s stopping", w.WorkerID)
			return nil
		case <-time.After(w.interval):
		}
	}
}
