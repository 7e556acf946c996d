package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/propmatch/internal/services"
)

// AssistantHandler triggers processing passes and serves exports
type AssistantHandler struct {
	assistant *services.AssistantService
	export    *services.ExportService
}

func NewAssistantHandler(assistant *services.AssistantService, export *services.ExportService) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		export:    export,
	}
}

// RunNow executes one processing pass synchronously
func (h *AssistantHandler) RunNow(c *gin.Context) {
	if err := h.assistant.ProcessRun(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// Export streams an xlsx snapshot of the directories and the ledger
func (h *AssistantHandler) Export(c *gin.Context) {
	workbook, err := h.export.Workbook()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer workbook.Close()

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("propmatch-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buffer.Bytes())
}
