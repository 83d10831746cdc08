package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-roster/internal/persistence"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
	"github.com/noah-isme/college-roster/pkg/response"
)

type persistenceService interface {
	Save() error
	Reload() (persistence.LoadReport, error)
}

// AdminHandler triggers explicit save and reload passes.
type AdminHandler struct {
	persistence persistenceService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(svc persistenceService) *AdminHandler {
	return &AdminHandler{persistence: svc}
}

// Save godoc
// @Summary Write all record files
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /admin/save [post]
func (h *AdminHandler) Save(c *gin.Context) {
	if err := h.persistence.Save(); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"saved": true})
}

// Reload godoc
// @Summary Re-read all record files
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /admin/reload [post]
func (h *AdminHandler) Reload(c *gin.Context) {
	report, err := h.persistence.Reload()
	if err != nil {
		appErr := appErrors.FromError(err)
		_ = c.Error(err)
		c.JSON(appErr.Status, response.Envelope{Error: appErr, Meta: map[string]interface{}{"report": report}})
		return
	}
	response.JSON(c, http.StatusOK, report)
}
