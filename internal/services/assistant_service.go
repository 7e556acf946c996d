package services

import (
	"context"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/logger"
)

// AssistantService runs one bounded processing pass over the inbox:
// fetch unread thread, extract intent, advance the negotiation, mark
// read, repeat until the message cap or the wall-clock budget is hit,
// then reconcile the viewing ledger. Messages are processed one at a
// time by a single worker; the caps are only checked between messages,
// never inside a transition.
type AssistantService struct {
	inbox          Inbox
	extractor      Extractor
	engine         *NegotiationService
	viewingService *ViewingService
	clients        ClientStore
	owners         OwnerStore
	maxEmails      int
	maxRunTime     time.Duration
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(
	inbox Inbox,
	extractor Extractor,
	engine *NegotiationService,
	viewingService *ViewingService,
	clients ClientStore,
	owners OwnerStore,
	maxEmails int,
	maxRunTime time.Duration,
) *AssistantService {
	return &AssistantService{
		inbox:          inbox,
		extractor:      extractor,
		engine:         engine,
		viewingService: viewingService,
		clients:        clients,
		owners:         owners,
		maxEmails:      maxEmails,
		maxRunTime:     maxRunTime,
	}
}

// ProcessRun executes one processing pass. Per-message faults are
// logged and the message is still marked read so a poison message never
// blocks the next run. The finalizer sweep always runs, whatever
// happened earlier in the pass.
func (s *AssistantService) ProcessRun(ctx context.Context) error {
	start := time.Now()
	processed := 0

	for processed < s.maxEmails && time.Since(start) < s.maxRunTime {
		select {
		case <-ctx.Done():
			logger.Info("Processing pass interrupted, running finalizer")
			return s.viewingService.Finalize()
		default:
		}

		thread, err := s.inbox.NextUnread()
		if err != nil {
			logger.WithError(err).Errorf("Failed to fetch unread thread")
			break
		}
		if thread == nil {
			logger.Info("No unread emails left to process")
			break
		}

		if err := s.processThread(thread); err != nil {
			logger.WithError(err).Errorf("Error processing email from %s", thread.Sender())
		}
		if err := thread.MarkRead(); err != nil {
			logger.WithError(err).Warnf("Failed to mark thread from %s as read", thread.Sender())
		}

		processed++
	}

	logger.Infof("Processing pass done, %d message(s) handled", processed)

	return s.viewingService.Finalize()
}

// processThread handles a single conversation. Extraction failures are
// swallowed: the message counts as consumed with no state mutation.
func (s *AssistantService) processThread(thread Thread) error {
	sender := models.NormalizeEmail(thread.Sender())

	intent, err := s.extractor.Extract(thread.Conversation(), s.statusHint(sender))
	if err != nil {
		logger.WithError(err).Warnf("Extraction failed for %s, skipping message", sender)
		return nil
	}

	switch intent.Role {
	case models.IntentRoleClient:
		return s.engine.HandleClient(thread, intent)
	case models.IntentRoleOwner:
		return s.engine.HandleOwner(thread, intent)
	default:
		reply := intent.Reply
		if reply == "" {
			reply = "Thank you for your message."
		}
		return thread.Reply(reply)
	}
}

// statusHint finds the sender's current status for the extraction
// prompt, checking the client directory before the owner directory
func (s *AssistantService) statusHint(email string) string {
	if client, err := s.clients.FindByEmail(email); err == nil && client != nil {
		return string(client.Status)
	}
	if owner, err := s.owners.FindByEmail(email); err == nil && owner != nil {
		return string(owner.Status)
	}
	return ""
}
