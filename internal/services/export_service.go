package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the two directories and the viewing ledger as
// an xlsx workbook, one sheet per table
type ExportService struct {
	clients  ClientStore
	owners   OwnerStore
	viewings ViewingStore
}

// NewExportService creates a new ExportService
func NewExportService(clients ClientStore, owners OwnerStore, viewings ViewingStore) *ExportService {
	return &ExportService{
		clients:  clients,
		owners:   owners,
		viewings: viewings,
	}
}

// Workbook builds the export workbook. The caller owns closing it.
func (s *ExportService) Workbook() (*excelize.File, error) {
	file := excelize.NewFile()

	if err := s.writeClients(file); err != nil {
		return nil, err
	}
	if err := s.writeOwners(file); err != nil {
		return nil, err
	}
	if err := s.writeViewings(file); err != nil {
		return nil, err
	}

	// Drop the default sheet left over from NewFile
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return file, nil
}

func (s *ExportService) writeClients(file *excelize.File) error {
	clients, err := s.clients.All()
	if err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}

	rows := make([][]interface{}, 0, len(clients)+1)
	rows = append(rows, []interface{}{"Created", "Email", "Location", "Budget", "Type", "Status"})
	for _, client := range clients {
		rows = append(rows, []interface{}{
			client.CreatedAt.Format(time.RFC3339),
			client.Email,
			client.Location,
			client.Budget,
			client.PropertyType,
			string(client.Status),
		})
	}

	return writeSheet(file, "Clients", rows)
}

func (s *ExportService) writeOwners(file *excelize.File) error {
	owners, err := s.owners.All()
	if err != nil {
		return fmt.Errorf("failed to load owners: %w", err)
	}

	rows := make([][]interface{}, 0, len(owners)+1)
	rows = append(rows, []interface{}{"Created", "Email", "Location", "Price", "Description", "Status"})
	for _, owner := range owners {
		rows = append(rows, []interface{}{
			owner.CreatedAt.Format(time.RFC3339),
			owner.Email,
			owner.Location,
			owner.Price,
			owner.Description,
			string(owner.Status),
		})
	}

	return writeSheet(file, "Owners", rows)
}

func (s *ExportService) writeViewings(file *excelize.File) error {
	viewings, err := s.viewings.All()
	if err != nil {
		return fmt.Errorf("failed to load viewings: %w", err)
	}

	rows := make([][]interface{}, 0, len(viewings)+1)
	rows = append(rows, []interface{}{"Created", "Client", "Owner", "Proposed Time", "Status"})
	for _, viewing := range viewings {
		rows = append(rows, []interface{}{
			viewing.CreatedAt.Format(time.RFC3339),
			viewing.ClientEmail,
			viewing.OwnerEmail,
			viewing.ProposedTime,
			string(viewing.Status),
		})
	}

	return writeSheet(file, "Viewings", rows)
}

func writeSheet(file *excelize.File, name string, rows [][]interface{}) error {
	if _, err := file.NewSheet(name); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
