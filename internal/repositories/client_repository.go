package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/logger"
)

// ClientRepository handles database operations for the client directory
type ClientRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Append inserts a new client row
func (r *ClientRepository) Append(client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO clients (id, email, location, budget, property_type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		client.ID,
		client.Email,
		client.Location,
		client.Budget,
		client.PropertyType,
		string(client.Status),
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

// FindByEmail retrieves a client by normalized email, nil when absent
func (r *ClientRepository) FindByEmail(email string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, email, location, budget, property_type, status, created_at, updated_at
		FROM clients WHERE email = ?
	`

	client, err := scanClient(r.db.QueryRow(query, models.NormalizeEmail(email)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return client, nil
}

// UpdateStatus sets the status of the client with the given email
func (r *ClientRepository) UpdateStatus(email string, status models.ClientStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE clients SET status = ?, updated_at = ? WHERE email = ?`
	_, err := r.db.Exec(query, string(status), time.Now(), models.NormalizeEmail(email))
	return err
}

// All retrieves every client in insertion order
func (r *ClientRepository) All() ([]*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, email, location, budget, property_type, status, created_at, updated_at
		FROM clients ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	client := &models.Client{}
	var status string

	err := row.Scan(
		&client.ID,
		&client.Email,
		&client.Location,
		&client.Budget,
		&client.PropertyType,
		&status,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Status = models.ParseClientStatus(status)
	if client.Status == "" && status != "" {
		logger.Warnf("Unrecognized client status %q for %s, treating as empty", status, client.Email)
	}

	return client, nil
}
