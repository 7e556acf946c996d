package services

import (
	"strings"

	"github.com/oguzk/propmatch/internal/models"
)

// MatcherService matches search criteria against the opposite directory.
// Results keep the directory scan order; there is no scoring.
type MatcherService struct {
	clients ClientStore
	owners  OwnerStore
}

// NewMatcherService creates a new MatcherService
func NewMatcherService(clients ClientStore, owners OwnerStore) *MatcherService {
	return &MatcherService{
		clients: clients,
		owners:  owners,
	}
}

// FindListings returns all owner listings matching a client's criteria
func (s *MatcherService) FindListings(location, budget, propertyType string) ([]*models.Owner, error) {
	owners, err := s.owners.All()
	if err != nil {
		return nil, err
	}

	budgetAmount := models.ParseAmount(budget)

	var matches []*models.Owner
	for _, owner := range owners {
		if listingMatches(owner, location, budgetAmount, propertyType) {
			matches = append(matches, owner)
		}
	}

	return matches, nil
}

// FindClients returns all clients whose criteria match an owner's listing
func (s *MatcherService) FindClients(location, price, description string) ([]*models.Client, error) {
	clients, err := s.clients.All()
	if err != nil {
		return nil, err
	}

	priceAmount := models.ParseAmount(price)

	var matches []*models.Client
	for _, client := range clients {
		if clientMatches(client, location, priceAmount, description) {
			matches = append(matches, client)
		}
	}

	return matches, nil
}

// listingMatches checks one owner listing against client criteria.
// Empty criteria fields and an unparsable budget are unconstrained.
func listingMatches(owner *models.Owner, location string, budget int, propertyType string) bool {
	if location != "" && !containsFold(owner.Location, location) {
		return false
	}
	if propertyType != "" && !containsFold(owner.Description, propertyType) {
		return false
	}
	if budget > 0 && owner.PriceAmount() > budget {
		return false
	}
	return true
}

// clientMatches checks one client against an owner's listing.
// Empty criteria fields and an unparsable price are unconstrained.
func clientMatches(client *models.Client, location string, price int, description string) bool {
	if location != "" && !containsFold(client.Location, location) {
		return false
	}
	if description != "" && !containsFold(client.PropertyType, description) {
		return false
	}
	if price > 0 && client.BudgetAmount() < price {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
