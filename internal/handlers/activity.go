// internal/handlers/activity.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

// ActivityHandler serves the staff view of the action journal.
type ActivityHandler struct {
	journalService *services.JournalService
	storageService *services.StorageService
}

func NewActivityHandler(journalService *services.JournalService, storageService *services.StorageService) *ActivityHandler {
	return &ActivityHandler{
		journalService: journalService,
		storageService: storageService,
	}
}

// GET /staff/activity
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	filter := services.JournalFilter{
		ViewerID:   c.Query("viewer_id"),
		EntityID:   c.Query("entity_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Outcome:    models.ActionOutcome(c.Query("outcome")),
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "since"), err.Error())
			return
		}
		filter.Since = &t
	}

	entries, total, err := h.journalService.List(c.Request.Context(), filter, params)
	if err != nil {
		logrus.WithError(err).Error("Failed to list action journal")
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(entries, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /staff/activity/:id
//
// Archived evidence keys are resolved to short-lived download links.
func (h *ActivityHandler) GetActivityEntry(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	entry, err := h.journalService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrJournalEntryNotFound) {
			utils.NotFoundResponse(c, "activity")
			return
		}
		logrus.WithError(err).Error("Failed to load action journal entry")
		utils.InternalErrorResponse(c, "")
		return
	}

	links := make([]string, 0, len(entry.PhotoKeys))
	if h.storageService != nil && h.storageService.Enabled() {
		for _, key := range entry.PhotoKeys {
			url, err := h.storageService.GeneratePresignedURL(key)
			if err != nil {
				logrus.WithError(err).WithField("key", key).Warn("Failed to presign evidence")
				continue
			}
			links = append(links, url)
		}
	}

	utils.SuccessResponse(c, gin.H{
		"entry":         entry,
		"evidence_urls": links,
	})
}
