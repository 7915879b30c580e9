// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type CreateDepositRequest struct {
	Acknowledgement
	ListingID     string          `json:"listingId" validate:"required,notblank"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

type RemainingQRRequest struct {
	Acknowledgement
	ListingID        string `json:"listingId" validate:"required,notblank"`
	DepositRequestID string `json:"depositRequestId" validate:"required,notblank"`
}

type FullQRRequest struct {
	Acknowledgement
	ListingID string `json:"listingId" validate:"required,notblank"`
}

// POST /deposits
func (h *PaymentHandler) CreateDeposit(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req CreateDepositRequest
	if !bindAction(c, &req, i18n.KeyPromptDepositCreate) {
		return
	}

	deposit, err := h.paymentService.CreateDeposit(c.Request.Context(), viewer, services.CreateDepositRequest{
		ListingID:     req.ListingID,
		DepositAmount: req.DepositAmount,
	})
	if err != nil {
		respondError(c, err, "", i18n.KeyActionFailed)
		return
	}

	utils.CreatedResponse(c, deposit)
}

// POST /payments/remaining-qr
func (h *PaymentHandler) GenerateRemainingQR(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req RemainingQRRequest
	if !bindAction(c, &req, i18n.KeyPromptRemainingQR) {
		return
	}

	qr, err := h.paymentService.RemainingQR(c.Request.Context(), viewer, req.ListingID, req.DepositRequestID)
	if err != nil {
		respondError(c, err, "", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, qr)
}

// POST /payments/full-qr
func (h *PaymentHandler) GenerateFullQR(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req FullQRRequest
	if !bindAction(c, &req, i18n.KeyPromptFullQR) {
		return
	}

	qr, err := h.paymentService.FullQR(c.Request.Context(), viewer, req.ListingID)
	if err != nil {
		respondError(c, err, "", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, qr)
}

// POST /appointments/:id/pay-remaining
func (h *PaymentHandler) PayRemaining(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req Acknowledgement
	if !bindAction(c, &req, i18n.KeyPromptPayRemaining) {
		return
	}

	qr, err := h.paymentService.PayRemaining(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err, "appointment", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, qr)
}
