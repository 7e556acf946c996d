package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/logger"
)

// ViewingRepository handles database operations for the viewing ledger
type ViewingRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewViewingRepository creates a new ViewingRepository
func NewViewingRepository(db *sql.DB) *ViewingRepository {
	return &ViewingRepository{db: db}
}

// Append inserts a new viewing row
func (r *ViewingRepository) Append(viewing *models.Viewing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO viewings (id, client_email, owner_email, proposed_time, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		viewing.ID,
		viewing.ClientEmail,
		viewing.OwnerEmail,
		viewing.ProposedTime,
		string(viewing.Status),
		viewing.CreatedAt,
		viewing.UpdatedAt,
	)
	return err
}

// FindByClient retrieves all viewings for a client in insertion order
func (r *ViewingRepository) FindByClient(clientEmail string) ([]*models.Viewing, error) {
	return r.find(`client_email = ?`, models.NormalizeEmail(clientEmail))
}

// FindByOwner retrieves all viewings for an owner in insertion order
func (r *ViewingRepository) FindByOwner(ownerEmail string) ([]*models.Viewing, error) {
	return r.find(`owner_email = ?`, models.NormalizeEmail(ownerEmail))
}

// All retrieves every viewing in insertion order
func (r *ViewingRepository) All() ([]*models.Viewing, error) {
	return r.find(``)
}

// SetProposedTime updates the proposed time and status of one viewing
func (r *ViewingRepository) SetProposedTime(id, proposedTime string, status models.ViewingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE viewings SET proposed_time = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, proposedTime, string(status), time.Now(), id)
	return err
}

// SetStatus updates the status of one viewing
func (r *ViewingRepository) SetStatus(id string, status models.ViewingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE viewings SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, string(status), time.Now(), id)
	return err
}

func (r *ViewingRepository) find(where string, args ...interface{}) ([]*models.Viewing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, client_email, owner_email, proposed_time, status, created_at, updated_at
		FROM viewings
	`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var viewings []*models.Viewing
	for rows.Next() {
		viewing, err := scanViewing(rows)
		if err != nil {
			return nil, err
		}
		viewings = append(viewings, viewing)
	}

	return viewings, rows.Err()
}

func scanViewing(row rowScanner) (*models.Viewing, error) {
	viewing := &models.Viewing{}
	var status string

	err := row.Scan(
		&viewing.ID,
		&viewing.ClientEmail,
		&viewing.OwnerEmail,
		&viewing.ProposedTime,
		&status,
		&viewing.CreatedAt,
		&viewing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	viewing.Status = models.ParseViewingStatus(status)
	if viewing.Status == "" && status != "" {
		logger.Warnf("Unrecognized viewing status %q for row %s, treating as empty", status, viewing.ID)
	}

	return viewing, nil
}
