package services

import (
	"fmt"
	"strings"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/logger"
	"github.com/sirupsen/logrus"
)

// NegotiationService is the state machine driving both sides of a
// viewing negotiation. It is the sole writer of non-terminal status
// transitions; the finalizer sweep in ViewingService owns the terminal
// ones.
type NegotiationService struct {
	clients        ClientStore
	owners         OwnerStore
	viewings       ViewingStore
	matcher        *MatcherService
	viewingService *ViewingService
	outbox         Outbox
}

// NewNegotiationService creates a new NegotiationService
func NewNegotiationService(
	clients ClientStore,
	owners OwnerStore,
	viewings ViewingStore,
	matcher *MatcherService,
	viewingService *ViewingService,
	outbox Outbox,
) *NegotiationService {
	return &NegotiationService{
		clients:        clients,
		owners:         owners,
		viewings:       viewings,
		matcher:        matcher,
		viewingService: viewingService,
		outbox:         outbox,
	}
}

// HandleClient advances a client's negotiation one step based on the
// extracted intent
func (s *NegotiationService) HandleClient(thread Thread, intent *models.Intent) error {
	sender := models.NormalizeEmail(thread.Sender())
	data := intent.Data

	client, err := s.clients.FindByEmail(sender)
	if err != nil {
		return fmt.Errorf("failed to look up client %s: %w", sender, err)
	}

	if client == nil {
		client = models.NewClient(sender, data.Location, data.Budget, data.Type)
		if err := s.clients.Append(client); err != nil {
			return fmt.Errorf("failed to add client %s: %w", sender, err)
		}
		logger.WithField("client", sender).Info("Client added")
	}

	status := client.Status

	if data.Location == "" || data.Budget == "" || data.Type == "" {
		if err := s.replyOr(thread, intent.Reply, "Please provide your desired location, budget, and property type."); err != nil {
			return err
		}
		return s.setClientStatus(sender, models.ClientStatusAwaitingDetails)
	}

	logger.WithFields(logrus.Fields{
		"client":   sender,
		"location": data.Location,
		"budget":   data.Budget,
		"type":     data.Type,
	}).Info("Searching listings for client")

	matches, err := s.matcher.FindListings(data.Location, data.Budget, data.Type)
	if err != nil {
		return fmt.Errorf("failed to match listings for %s: %w", sender, err)
	}

	if len(matches) == 0 {
		if err := thread.Reply("We will notify you when matching properties are available."); err != nil {
			return err
		}
		return s.setClientStatus(sender, models.ClientStatusNoMatches)
	}

	if status == models.ClientStatusNew || status == models.ClientStatusAwaitingDetails || status == models.ClientStatusNoMatches {
		return s.fanOut(thread, sender, matches)
	}

	if status == models.ClientStatusWaitingForTime && data.ViewingTime != "" {
		return s.proposeTime(thread, sender, data.ViewingTime)
	}

	if status == models.ClientStatusWaitingForTime {
		return thread.Reply("Please provide your preferred time for the viewing.")
	}

	return s.replyOr(thread, intent.Reply, "Thank you for your message.")
}

// fanOut presents matches to the client and opens one pending viewing
// per matched owner, each owner notified and moved to
// awaiting_confirmation
func (s *NegotiationService) fanOut(thread Thread, sender string, matches []*models.Owner) error {
	lines := make([]string, 0, len(matches))
	for i, owner := range matches {
		lines = append(lines, fmt.Sprintf("%d) %s — %s, $%d", i+1, owner.Description, owner.Location, owner.PriceAmount()))
	}
	reply := fmt.Sprintf("We found %d properties:\n%s\nPlease reply with a preferred viewing time.",
		len(matches), strings.Join(lines, "\n"))

	if err := thread.Reply(reply); err != nil {
		return err
	}
	if err := s.setClientStatus(sender, models.ClientStatusWaitingForTime); err != nil {
		return err
	}

	for _, owner := range matches {
		if err := s.viewings.Append(models.NewViewing(sender, owner.Email)); err != nil {
			return fmt.Errorf("failed to log viewing for %s/%s: %w", sender, owner.Email, err)
		}
		if err := s.outbox.Send(owner.Email, "Viewing Request",
			fmt.Sprintf("Client %s is interested in your property at %s.\nPlease confirm if you are available for a viewing.",
				sender, owner.Location)); err != nil {
			logger.WithError(err).Warnf("Failed to notify owner %s", owner.Email)
		}
		if err := s.owners.UpdateStatus(owner.Email, models.OwnerStatusAwaitingConfirmation); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"client":  sender,
		"matches": len(matches),
	}).Info("Fanned out viewing requests")
	return nil
}

// proposeTime propagates a client's proposed time to every viewing leg
// and asks the owners to confirm
func (s *NegotiationService) proposeTime(thread Thread, sender, viewingTime string) error {
	owners, err := s.viewingService.PropagateTime(sender, viewingTime)
	if err != nil {
		return err
	}

	for _, owner := range owners {
		if err := s.outbox.Send(owner, "Viewing Time Proposed",
			fmt.Sprintf("Client %s proposes: %s.\nPlease confirm or suggest another time.", sender, viewingTime)); err != nil {
			logger.WithError(err).Warnf("Failed to notify owner %s", owner)
		}
	}

	if err := s.setClientStatus(sender, models.ClientStatusWaitingOwner); err != nil {
		return err
	}
	return thread.Reply("Your time was sent to the owner. Awaiting confirmation.")
}

// HandleOwner advances an owner's negotiation one step based on the
// extracted intent. Confirmation handling has priority over the
// missing-details check so an owner mid-confirmation is never re-asked
// for listing fields.
func (s *NegotiationService) HandleOwner(thread Thread, intent *models.Intent) error {
	sender := models.NormalizeEmail(thread.Sender())
	data := intent.Data

	owner, err := s.owners.FindByEmail(sender)
	if err != nil {
		return fmt.Errorf("failed to look up owner %s: %w", sender, err)
	}

	if owner == nil {
		owner = models.NewOwner(sender, data.Location, data.Price, data.Description)
		if err := s.owners.Append(owner); err != nil {
			return fmt.Errorf("failed to add owner %s: %w", sender, err)
		}
		logger.WithField("owner", sender).Info("Owner added")
	}

	if owner.Status == models.OwnerStatusAwaitingConfirmation && intent.IsDecision() {
		return s.resolveDecision(thread, sender, bool(data.Decline))
	}

	if data.Location == "" || data.Price == "" || data.Description == "" {
		if err := s.replyOr(thread, intent.Reply, "Please provide location, price, and description."); err != nil {
			return err
		}
		return s.setOwnerStatus(sender, models.OwnerStatusAwaitingDetails)
	}

	matches, err := s.matcher.FindClients(data.Location, data.Price, data.Description)
	if err != nil {
		return fmt.Errorf("failed to match clients for %s: %w", sender, err)
	}

	if len(matches) == 0 {
		if err := thread.Reply("Currently no interested clients. We will notify you when they appear."); err != nil {
			return err
		}
		return s.setOwnerStatus(sender, models.OwnerStatusNoClients)
	}

	lines := make([]string, 0, len(matches))
	for i, client := range matches {
		lines = append(lines, fmt.Sprintf("%d) %s — %s, budget up to $%d", i+1, client.Email, client.Location, client.BudgetAmount()))
	}
	reply := fmt.Sprintf("We found %d potential clients:\n%s", len(matches), strings.Join(lines, "\n"))

	if err := thread.Reply(reply); err != nil {
		return err
	}
	return s.setOwnerStatus(sender, models.OwnerStatusNotified)
}

// resolveDecision applies an owner's confirm/decline to every open
// viewing leg and notifies the affected clients individually
func (s *NegotiationService) resolveDecision(thread Thread, sender string, declined bool) error {
	decision := models.ViewingStatusConfirmed
	ownerStatus := models.OwnerStatusConfirmed
	if declined {
		decision = models.ViewingStatusDeclined
		ownerStatus = models.OwnerStatusDeclined
	}

	affected, err := s.viewingService.ResolveOwnerDecision(sender, decision)
	if err == ErrNoOpenViewings {
		return thread.Reply("No matching viewing found to confirm.")
	}
	if err != nil {
		return err
	}

	for _, clientEmail := range affected {
		if declined {
			if err := s.outbox.Send(clientEmail, "Viewing Declined",
				"The owner is not available at that time. Please suggest another."); err != nil {
				logger.WithError(err).Warnf("Failed to notify client %s", clientEmail)
			}
			if err := s.setClientStatus(clientEmail, models.ClientStatusAwaitingNewTime); err != nil {
				return err
			}
		} else {
			if err := s.outbox.Send(clientEmail, "Viewing Confirmed",
				"The owner has confirmed your proposed time."); err != nil {
				logger.WithError(err).Warnf("Failed to notify client %s", clientEmail)
			}
			if err := s.setClientStatus(clientEmail, models.ClientStatusMeetingConfirmed); err != nil {
				return err
			}
		}
	}

	if err := s.setOwnerStatus(sender, ownerStatus); err != nil {
		return err
	}
	return thread.Reply("Thanks! We've updated the client(s).")
}

func (s *NegotiationService) setClientStatus(email string, status models.ClientStatus) error {
	if err := s.clients.UpdateStatus(email, status); err != nil {
		return fmt.Errorf("failed to update client %s: %w", email, err)
	}
	logger.WithFields(logrus.Fields{"client": email, "status": status}).Info("Client status updated")
	return nil
}

func (s *NegotiationService) setOwnerStatus(email string, status models.OwnerStatus) error {
	if err := s.owners.UpdateStatus(email, status); err != nil {
		return fmt.Errorf("failed to update owner %s: %w", email, err)
	}
	logger.WithFields(logrus.Fields{"owner": email, "status": status}).Info("Owner status updated")
	return nil
}

func (s *NegotiationService) replyOr(thread Thread, reply, fallback string) error {
	if reply == "" {
		reply = fallback
	}
	return thread.Reply(reply)
}
