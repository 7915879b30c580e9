// internal/handlers/appointment.go
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

type ReasonRequest struct {
	Acknowledgement
	Reason string `json:"reason" validate:"max=500"`
}

type CreateFromAuctionRequest struct {
	Acknowledgement
	AuctionID     string     `json:"auctionId" validate:"required,notblank"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Location      string     `json:"location" validate:"max=255"`
	Notes         string     `json:"notes" validate:"max=1000"`
}

// GET /appointments
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filter := models.AppointmentFilter{
		Page:   params.Page,
		Limit:  params.Limit,
		Role:   c.Query("role"),
		Type:   models.AppointmentType(c.Query("type")),
		Status: models.AppointmentStatus(c.Query("status")),
	}

	views, pagination, err := h.appointmentService.List(c.Request.Context(), viewer, filter)
	if err != nil {
		if isAuthError(err) {
			respondError(c, err, "", i18n.KeyErrorGeneric)
			return
		}
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Warn("Failed to list appointments")
		views = []services.AppointmentView{}
		pagination = nil
	}

	utils.SuccessResponseWithMeta(c, views, paginationMeta(pagination, params.Page, params.Limit, len(views)))
}

// GET /appointments/:id
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	view, err := h.appointmentService.Get(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyErrorGeneric)
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /appointments/:id/confirm
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req Acknowledgement
	if !bindAction(c, &req, i18n.KeyPromptAppointmentConfirm) {
		return
	}

	view, err := h.appointmentService.Confirm(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /appointments/:id/reject
func (h *AppointmentHandler) RejectAppointment(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req ReasonRequest
	if !bindAction(c, &req, i18n.KeyPromptAppointmentReject) {
		return
	}

	view, err := h.appointmentService.Reject(c.Request.Context(), viewer, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /appointments/:id/cancel
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req ReasonRequest
	if !bindAction(c, &req, i18n.KeyPromptAppointmentCancel) {
		return
	}

	view, err := h.appointmentService.Cancel(c.Request.Context(), viewer, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, view)
}

// POST /appointments/auction
func (h *AppointmentHandler) CreateFromAuction(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req CreateFromAuctionRequest
	if !bindAction(c, &req, i18n.KeyPromptAppointmentCreate) {
		return
	}

	created, err := h.appointmentService.CreateFromAuction(c.Request.Context(), viewer, models.CreateFromAuction{
		AuctionID:     req.AuctionID,
		ScheduledDate: req.ScheduledDate,
		Location:      req.Location,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err, "", i18n.KeyActionFailed)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"id":          created.ID,
		"detailUrl":   created.DetailURL,
		"appointment": created.Appointment,
		"message":     i18n.T(utils.GetLangFromContext(c), i18n.KeyAppointmentCreated),
	})
}

// GET /appointments/:id/deadline
func (h *AppointmentHandler) GetDeadline(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	view, err := h.appointmentService.Get(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyErrorGeneric)
		return
	}

	utils.SuccessResponse(c, h.appointmentService.DeadlineTracker(view.Appointment).Current())
}

// GET /appointments/:id/deadline/stream
//
// Server-sent events, one "deadline" event per second. The stream ends when
// the browser goes away, when the deadline expires or when there is none.
func (h *AppointmentHandler) StreamDeadline(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	view, err := h.appointmentService.Get(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyErrorGeneric)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	h.appointmentService.DeadlineTracker(view.Appointment).Watch(ctx, func(d lifecycle.Deadline) {
		c.SSEvent("deadline", d)
		c.Writer.Flush()
		if !d.HasDeadline || d.Expired {
			cancel()
		}
	})
}
