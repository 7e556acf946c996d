package services

import (
	"errors"

	"github.com/oguzk/propmatch/internal/models"
)

// In-memory store fakes used across the service tests.

type memClientStore struct {
	clients []*models.Client
}

func (m *memClientStore) FindByEmail(email string) (*models.Client, error) {
	email = models.NormalizeEmail(email)
	for _, client := range m.clients {
		if client.Email == email {
			return client, nil
		}
	}
	return nil, nil
}

func (m *memClientStore) Append(client *models.Client) error {
	m.clients = append(m.clients, client)
	return nil
}

func (m *memClientStore) UpdateStatus(email string, status models.ClientStatus) error {
	email = models.NormalizeEmail(email)
	for _, client := range m.clients {
		if client.Email == email {
			client.Status = status
			return nil
		}
	}
	return nil
}

func (m *memClientStore) All() ([]*models.Client, error) {
	return m.clients, nil
}

type memOwnerStore struct {
	owners []*models.Owner
}

func (m *memOwnerStore) FindByEmail(email string) (*models.Owner, error) {
	email = models.NormalizeEmail(email)
	for _, owner := range m.owners {
		if owner.Email == email {
			return owner, nil
		}
	}
	return nil, nil
}

func (m *memOwnerStore) Append(owner *models.Owner) error {
	m.owners = append(m.owners, owner)
	return nil
}

func (m *memOwnerStore) UpdateStatus(email string, status models.OwnerStatus) error {
	email = models.NormalizeEmail(email)
	for _, owner := range m.owners {
		if owner.Email == email {
			owner.Status = status
			return nil
		}
	}
	return nil
}

func (m *memOwnerStore) All() ([]*models.Owner, error) {
	return m.owners, nil
}

type memViewingStore struct {
	viewings []*models.Viewing
}

func (m *memViewingStore) Append(viewing *models.Viewing) error {
	m.viewings = append(m.viewings, viewing)
	return nil
}

func (m *memViewingStore) FindByClient(clientEmail string) ([]*models.Viewing, error) {
	clientEmail = models.NormalizeEmail(clientEmail)
	var result []*models.Viewing
	for _, viewing := range m.viewings {
		if viewing.ClientEmail == clientEmail {
			result = append(result, viewing)
		}
	}
	return result, nil
}

func (m *memViewingStore) FindByOwner(ownerEmail string) ([]*models.Viewing, error) {
	ownerEmail = models.NormalizeEmail(ownerEmail)
	var result []*models.Viewing
	for _, viewing := range m.viewings {
		if viewing.OwnerEmail == ownerEmail {
			result = append(result, viewing)
		}
	}
	return result, nil
}

func (m *memViewingStore) All() ([]*models.Viewing, error) {
	return m.viewings, nil
}

func (m *memViewingStore) SetProposedTime(id, proposedTime string, status models.ViewingStatus) error {
	for _, viewing := range m.viewings {
		if viewing.ID == id {
			viewing.ProposedTime = proposedTime
			viewing.Status = status
			return nil
		}
	}
	return errors.New("viewing not found")
}

func (m *memViewingStore) SetStatus(id string, status models.ViewingStatus) error {
	for _, viewing := range m.viewings {
		if viewing.ID == id {
			viewing.Status = status
			return nil
		}
	}
	return errors.New("viewing not found")
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeOutbox struct {
	sent []sentMail
}

func (f *fakeOutbox) Send(to, subject, body string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeThread struct {
	sender       string
	conversation string
	replies      []string
	markedRead   bool
}

func (f *fakeThread) Sender() string       { return f.sender }
func (f *fakeThread) Conversation() string { return f.conversation }

func (f *fakeThread) Reply(body string) error {
	f.replies = append(f.replies, body)
	return nil
}

func (f *fakeThread) MarkRead() error {
	f.markedRead = true
	return nil
}

// newTestEngine wires a negotiation engine over fresh in-memory stores
func newTestEngine() (*NegotiationService, *memClientStore, *memOwnerStore, *memViewingStore, *fakeOutbox) {
	clients := &memClientStore{}
	owners := &memOwnerStore{}
	viewings := &memViewingStore{}
	outbox := &fakeOutbox{}

	matcher := NewMatcherService(clients, owners)
	viewingService := NewViewingService(viewings, clients, owners, outbox)
	engine := NewNegotiationService(clients, owners, viewings, matcher, viewingService, outbox)

	return engine, clients, owners, viewings, outbox
}
