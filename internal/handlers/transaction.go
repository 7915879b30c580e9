// internal/handlers/transaction.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	views, pagination, err := h.transactionService.History(c.Request.Context(), viewer, params.Page, params.Limit)
	if err != nil {
		if isAuthError(err) {
			respondError(c, err, "", i18n.KeyErrorGeneric)
			return
		}
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Warn("Failed to load transaction history")
		views = []models.TransactionView{}
		pagination = nil
	}

	lang := utils.GetLangFromContext(c)
	for i := range views {
		views[i].KindLabel = paymentKindLabel(lang, views[i].PaymentKind)
	}

	utils.SuccessResponseWithMeta(c, views, paginationMeta(pagination, params.Page, params.Limit, len(views)))
}

// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	view, err := h.transactionService.Find(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err, "transaction", i18n.KeyErrorGeneric)
		return
	}
	view.KindLabel = paymentKindLabel(utils.GetLangFromContext(c), view.PaymentKind)

	utils.SuccessResponse(c, view)
}

func paymentKindLabel(lang string, kind models.PaymentKind) string {
	if kind == models.PaymentKindDeposit {
		return i18n.T(lang, i18n.KeyPaymentKindDeposit)
	}
	return i18n.T(lang, i18n.KeyPaymentKindFull)
}
