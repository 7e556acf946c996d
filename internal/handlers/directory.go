package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/propmatch/internal/services"
)

// DirectoryHandler exposes read-only views over the directories and
// the viewing ledger for operators
type DirectoryHandler struct {
	clients  services.ClientStore
	owners   services.OwnerStore
	viewings services.ViewingStore
}

func NewDirectoryHandler(clients services.ClientStore, owners services.OwnerStore, viewings services.ViewingStore) *DirectoryHandler {
	return &DirectoryHandler{
		clients:  clients,
		owners:   owners,
		viewings: viewings,
	}
}

// ListClients returns the client directory
func (h *DirectoryHandler) ListClients(c *gin.Context) {
	clients, err := h.clients.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// ListOwners returns the owner directory
func (h *DirectoryHandler) ListOwners(c *gin.Context) {
	owners, err := h.owners.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"owners": owners})
}

// ListViewings returns the viewing ledger
func (h *DirectoryHandler) ListViewings(c *gin.Context) {
	viewings, err := h.viewings.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewings": viewings})
}
