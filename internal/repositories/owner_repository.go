package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/logger"
)

// OwnerRepository handles database operations for the owner directory
type OwnerRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewOwnerRepository creates a new OwnerRepository
func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Append inserts a new owner row
func (r *OwnerRepository) Append(owner *models.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO owners (id, email, location, price, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		owner.ID,
		owner.Email,
		owner.Location,
		owner.Price,
		owner.Description,
		string(owner.Status),
		owner.CreatedAt,
		owner.UpdatedAt,
	)
	return err
}

// FindByEmail retrieves an owner by normalized email, nil when absent
func (r *OwnerRepository) FindByEmail(email string) (*models.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, email, location, price, description, status, created_at, updated_at
		FROM owners WHERE email = ?
	`

	owner, err := scanOwner(r.db.QueryRow(query, models.NormalizeEmail(email)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return owner, nil
}

// UpdateStatus sets the status of the owner with the given email
func (r *OwnerRepository) UpdateStatus(email string, status models.OwnerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE owners SET status = ?, updated_at = ? WHERE email = ?`
	_, err := r.db.Exec(query, string(status), time.Now(), models.NormalizeEmail(email))
	return err
}

// All retrieves every owner in insertion order
func (r *OwnerRepository) All() ([]*models.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, email, location, price, description, status, created_at, updated_at
		FROM owners ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []*models.Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}

	return owners, rows.Err()
}

func scanOwner(row rowScanner) (*models.Owner, error) {
	owner := &models.Owner{}
	var status string

	err := row.Scan(
		&owner.ID,
		&owner.Email,
		&owner.Location,
		&owner.Price,
		&owner.Description,
		&status,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	owner.Status = models.ParseOwnerStatus(status)
	if owner.Status == "" && status != "" {
		logger.Warnf("Unrecognized owner status %q for %s, treating as empty", status, owner.Email)
	}

	return owner, nil
}
