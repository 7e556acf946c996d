package services

import "github.com/oguzk/propmatch/internal/models"

// ClientStore is the client directory as the services see it.
// *repositories.ClientRepository is the production implementation.
type ClientStore interface {
	FindByEmail(email string) (*models.Client, error)
	Append(client *models.Client) error
	UpdateStatus(email string, status models.ClientStatus) error
	All() ([]*models.Client, error)
}

// OwnerStore is the owner directory as the services see it
type OwnerStore interface {
	FindByEmail(email string) (*models.Owner, error)
	Append(owner *models.Owner) error
	UpdateStatus(email string, status models.OwnerStatus) error
	All() ([]*models.Owner, error)
}

// ViewingStore is the viewing ledger as the services see it
type ViewingStore interface {
	Append(viewing *models.Viewing) error
	FindByClient(clientEmail string) ([]*models.Viewing, error)
	FindByOwner(ownerEmail string) ([]*models.Viewing, error)
	All() ([]*models.Viewing, error)
	SetProposedTime(id, proposedTime string, status models.ViewingStatus) error
	SetStatus(id string, status models.ViewingStatus) error
}

// Outbox sends fire-and-forget notification emails. No delivery
// confirmation is assumed anywhere in the workflow.
type Outbox interface {
	Send(to, subject, body string) error
}

// Thread is one unread conversation pulled from the inbox
type Thread interface {
	// Sender returns the From header of the latest message
	Sender() string
	// Conversation returns all message bodies oldest to newest,
	// joined by the thread delimiter
	Conversation() string
	// Reply answers the latest message on the same thread
	Reply(body string) error
	// MarkRead marks the whole thread as read
	MarkRead() error
}

// Inbox yields unread threads one at a time. A nil Thread with a nil
// error means nothing is left to process.
type Inbox interface {
	NextUnread() (Thread, error)
}

// Extractor is the classification oracle turning a conversation into a
// structured intent
type Extractor interface {
	Extract(conversation, statusHint string) (*models.Intent, error)
}
