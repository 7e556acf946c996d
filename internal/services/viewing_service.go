package services

import (
	"errors"
	"fmt"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrNoOpenViewings signals an owner decision that found nothing to
// resolve. Callers reply "nothing to confirm" instead of a success
// message; no status is mutated.
var ErrNoOpenViewings = errors.New("no open viewings for owner")

// ViewingService owns the viewing ledger operations: time propagation,
// owner decision resolution and the end-of-run finalizer sweep.
type ViewingService struct {
	viewings ViewingStore
	clients  ClientStore
	owners   OwnerStore
	outbox   Outbox
}

// NewViewingService creates a new ViewingService
func NewViewingService(viewings ViewingStore, clients ClientStore, owners OwnerStore, outbox Outbox) *ViewingService {
	return &ViewingService{
		viewings: viewings,
		clients:  clients,
		owners:   owners,
		outbox:   outbox,
	}
}

// PropagateTime stamps a client's proposed time on every viewing row of
// that client and moves them to "scheduled". The all-confirmed promotion
// is evaluated against the ledger snapshot taken before the write: a new
// proposal resets every leg to scheduled, so only legs that were already
// all confirmed can promote. Returns the distinct owners involved so the
// caller can notify them.
func (s *ViewingService) PropagateTime(clientEmail, proposedTime string) ([]string, error) {
	clientEmail = models.NormalizeEmail(clientEmail)

	viewings, err := s.viewings.FindByClient(clientEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewings for %s: %w", clientEmail, err)
	}

	var owners []string
	seen := make(map[string]bool)
	allConfirmed := true

	for _, viewing := range viewings {
		if !seen[viewing.OwnerEmail] {
			seen[viewing.OwnerEmail] = true
			owners = append(owners, viewing.OwnerEmail)
		}
		if viewing.Status != models.ViewingStatusConfirmed {
			allConfirmed = false
		}
	}

	for _, viewing := range viewings {
		if err := s.viewings.SetProposedTime(viewing.ID, proposedTime, models.ViewingStatusScheduled); err != nil {
			return nil, fmt.Errorf("failed to update viewing %s: %w", viewing.ID, err)
		}
	}

	if allConfirmed && len(owners) > 0 {
		if err := s.clients.UpdateStatus(clientEmail, models.ClientStatusMeetingConfirmed); err != nil {
			return nil, err
		}
		for _, owner := range owners {
			if err := s.owners.UpdateStatus(owner, models.OwnerStatusConfirmed); err != nil {
				return nil, err
			}
		}
	}

	return owners, nil
}

// ResolveOwnerDecision moves every open viewing of an owner to the given
// decision status and returns the distinct affected client emails.
// Returns ErrNoOpenViewings when there was nothing to resolve.
func (s *ViewingService) ResolveOwnerDecision(ownerEmail string, decision models.ViewingStatus) ([]string, error) {
	ownerEmail = models.NormalizeEmail(ownerEmail)

	viewings, err := s.viewings.FindByOwner(ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewings for %s: %w", ownerEmail, err)
	}

	var affected []string
	seen := make(map[string]bool)

	for _, viewing := range viewings {
		if !viewing.IsOpen() {
			continue
		}
		if err := s.viewings.SetStatus(viewing.ID, decision); err != nil {
			return nil, fmt.Errorf("failed to update viewing %s: %w", viewing.ID, err)
		}
		if !seen[viewing.ClientEmail] {
			seen[viewing.ClientEmail] = true
			affected = append(affected, viewing.ClientEmail)
		}
	}

	if len(affected) == 0 {
		return nil, ErrNoOpenViewings
	}

	return affected, nil
}

// Finalize reconciles terminal viewing decisions into both directories
// and notifies the parties. Rows already finalized, or without a
// proposed time and status, are skipped, so re-running the sweep never
// sends a duplicate notification. Row-level failures are logged and the
// sweep keeps going.
func (s *ViewingService) Finalize() error {
	viewings, err := s.viewings.All()
	if err != nil {
		return fmt.Errorf("failed to load viewing ledger: %w", err)
	}

	for _, viewing := range viewings {
		if viewing.ProposedTime == "" || viewing.Status == "" {
			continue
		}

		switch viewing.Status {
		case models.ViewingStatusConfirmed:
			s.finalizeConfirmed(viewing)
		case models.ViewingStatusDeclined:
			s.finalizeDeclined(viewing)
		}
	}

	return nil
}

func (s *ViewingService) finalizeConfirmed(viewing *models.Viewing) {
	if err := s.clients.UpdateStatus(viewing.ClientEmail, models.ClientStatusMeetingConfirmed); err != nil {
		logger.WithError(err).Errorf("Failed to update client %s during finalize", viewing.ClientEmail)
		return
	}
	if err := s.owners.UpdateStatus(viewing.OwnerEmail, models.OwnerStatusMeetingConfirmed); err != nil {
		logger.WithError(err).Errorf("Failed to update owner %s during finalize", viewing.OwnerEmail)
		return
	}

	if err := s.outbox.Send(viewing.ClientEmail, "Viewing Confirmed",
		fmt.Sprintf("Your viewing with the owner is confirmed for: %s.", viewing.ProposedTime)); err != nil {
		logger.WithError(err).Warnf("Failed to notify client %s", viewing.ClientEmail)
	}
	if err := s.outbox.Send(viewing.OwnerEmail, "Viewing Confirmed",
		fmt.Sprintf("Viewing with client %s is confirmed for: %s.", viewing.ClientEmail, viewing.ProposedTime)); err != nil {
		logger.WithError(err).Warnf("Failed to notify owner %s", viewing.OwnerEmail)
	}

	if err := s.viewings.SetStatus(viewing.ID, models.ViewingStatusFinalized); err != nil {
		logger.WithError(err).Errorf("Failed to finalize viewing %s", viewing.ID)
		return
	}

	logger.WithFields(logrus.Fields{
		"viewing": viewing.ID,
		"client":  viewing.ClientEmail,
		"owner":   viewing.OwnerEmail,
	}).Info("Viewing finalized")
}

func (s *ViewingService) finalizeDeclined(viewing *models.Viewing) {
	if err := s.clients.UpdateStatus(viewing.ClientEmail, models.ClientStatusAwaitingNewTime); err != nil {
		logger.WithError(err).Errorf("Failed to update client %s during finalize", viewing.ClientEmail)
		return
	}
	if err := s.owners.UpdateStatus(viewing.OwnerEmail, models.OwnerStatusDeclined); err != nil {
		logger.WithError(err).Errorf("Failed to update owner %s during finalize", viewing.OwnerEmail)
		return
	}

	if err := s.outbox.Send(viewing.ClientEmail, "Viewing Declined",
		"The owner declined your proposed time. Please suggest another."); err != nil {
		logger.WithError(err).Warnf("Failed to notify client %s", viewing.ClientEmail)
	}

	if err := s.viewings.SetStatus(viewing.ID, models.ViewingStatusDeclinedFinal); err != nil {
		logger.WithError(err).Errorf("Failed to finalize viewing %s", viewing.ID)
		return
	}

	logger.WithFields(logrus.Fields{
		"viewing": viewing.ID,
		"client":  viewing.ClientEmail,
		"owner":   viewing.OwnerEmail,
	}).Info("Viewing closed as declined")
}
