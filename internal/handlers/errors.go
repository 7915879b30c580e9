// internal/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

type gateError struct {
	err    error
	status int
	code   string
	key    string
}

var gateErrors = []gateError{
	{services.ErrActionInProgress, http.StatusConflict, "ACTION_IN_PROGRESS", i18n.KeyActionInProgress},
	{lifecycle.ErrTerminalStatus, http.StatusConflict, "TERMINAL_STATUS", i18n.KeyActionTerminal},
	{lifecycle.ErrAlreadyConfirmed, http.StatusConflict, "ALREADY_CONFIRMED", i18n.KeyActionAlreadyConfirmed},
	{lifecycle.ErrActionNotAllowed, http.StatusConflict, "ACTION_NOT_ALLOWED", i18n.KeyActionNotAllowed},
	{lifecycle.ErrNotParty, http.StatusForbidden, "NOT_PARTY", i18n.KeyActionNotParty},
	{lifecycle.ErrStaffOnly, http.StatusForbidden, "STAFF_ONLY", i18n.KeyActionStaffOnly},
	{lifecycle.ErrReasonRequired, http.StatusUnprocessableEntity, "REASON_REQUIRED", i18n.KeyActionReasonRequired},
	{lifecycle.ErrTooManyPhotos, http.StatusUnprocessableEntity, "TOO_MANY_PHOTOS", i18n.KeyEvidenceTooMany},
	{lifecycle.ErrIncompleteEvidence, http.StatusUnprocessableEntity, "INCOMPLETE_EVIDENCE", i18n.KeyEvidenceIncomplete},
	{services.ErrInvalidDepositAmount, http.StatusUnprocessableEntity, "INVALID_DEPOSIT_AMOUNT", i18n.KeyValidationInvalid},
	{services.ErrPaymentURLMissing, http.StatusBadGateway, "PAYMENT_URL_MISSING", i18n.KeyPaymentURLMissing},
}

// respondError answers a failed read or action. Gate failures get their own
// code; upstream failures carry the backend's message verbatim when it sent
// one and fallbackKey otherwise.
func respondError(c *gin.Context, err error, resource, fallbackKey string) {
	lang := utils.GetLangFromContext(c)

	for _, g := range gateErrors {
		if errors.Is(err, g.err) {
			message := i18n.T(lang, g.key)
			if g.err == services.ErrInvalidDepositAmount {
				message = i18n.T(lang, g.key, "depositAmount")
			}
			utils.ErrorResponse(c, g.status, g.code, message, nil)
			return
		}
	}

	if errors.Is(err, services.ErrTransactionNotFound) {
		utils.NotFoundResponse(c, "transaction")
		return
	}
	if backend.IsNotFound(err) && resource != "" {
		utils.NotFoundResponse(c, resource)
		return
	}

	logrus.WithFields(logrus.Fields{
		"request_id": utils.GetRequestIDFromContext(c),
		"path":       c.Request.URL.Path,
	}).WithError(err).Warn("Upstream request failed")

	message := backend.ServerMessage(err)
	if message == "" {
		message = i18n.T(lang, fallbackKey)
	}

	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		utils.UnauthorizedResponse(c, message)
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden:
		utils.ForbiddenResponse(c, message)
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		utils.ErrorResponse(c, apiErr.StatusCode, "UPSTREAM_REJECTED", message, nil)
	case errors.Is(err, context.DeadlineExceeded):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", message, nil)
	default:
		utils.BadGatewayResponse(c, message)
	}
}

// isAuthError reports whether the backend refused the viewer's credentials.
// Such failures are never hidden behind an empty page.
func isAuthError(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}
