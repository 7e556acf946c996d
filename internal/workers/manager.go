package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oguzk/propmatch/internal/services"
	"github.com/oguzk/propmatch/pkg/config"
)

// WorkerManager manages the background workers
type WorkerManager struct {
	workers   []Worker
	assistant *services.AssistantService
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(assistant *services.AssistantService) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:   make([]Worker, 0),
		assistant: assistant,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// StartAll starts all workers based on configuration
func (wm *WorkerManager) StartAll() error {
	mailWorkers := config.AppConfig.Assistant.MailWorkers
	interval := time.Duration(config.AppConfig.Assistant.PollSeconds) * time.Second

	// More than one worker would break the single-writer assumption
	// over the directories and the ledger
	if mailWorkers > 1 {
		log.Printf("MAIL_WORKERS=%d requested, clamping to 1", mailWorkers)
		mailWorkers = 1
	}

	for i := 0; i < mailWorkers; i++ {
		worker := NewMailWorker(fmt.Sprintf("mail-%d", i+1), wm.assistant, interval)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	log.Printf("Started %d total workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	log.Println("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			log.Printf("Error stopping worker %s: %v", worker.GetWorkerID(), err)
		}
	}

	// Wait for all workers to finish
	wm.wg.Wait()

	log.Println("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil {
			log.Printf("Worker %s stopped with error: %v", worker.GetWorkerID(), err)
		}
	}()
}
