// internal/handlers/request.go
package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

// Acknowledgement is embedded in every mutating request. The browser shows
// the prompt from a 428 answer and resubmits with Acknowledged set.
type Acknowledgement struct {
	Acknowledged bool `json:"acknowledged" form:"acknowledged"`
}

func (a Acknowledgement) acknowledged() bool {
	return a.Acknowledged
}

type acknowledger interface {
	acknowledged() bool
}

func viewerFromContext(c *gin.Context) (services.Viewer, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return services.Viewer{}, false
	}
	role, _ := utils.GetRoleFromContext(c)
	token, _ := utils.GetTokenFromContext(c)

	return services.Viewer{
		ID:        userID,
		Role:      models.UserRole(role),
		Token:     token,
		RequestID: utils.GetRequestIDFromContext(c),
	}, true
}

// bindAction decodes and validates an action body, then enforces the
// blocking prompt. An empty body is treated as unacknowledged.
func bindAction(c *gin.Context, req acknowledger, promptKey string) bool {
	lang := utils.GetLangFromContext(c)

	if c.Request.ContentLength != 0 {
		// Chunked requests report an unknown length; an empty one reads as EOF.
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return false
		}
	}

	if !req.acknowledged() {
		utils.ConfirmationRequiredResponse(c, i18n.T(lang, promptKey))
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func paginationMeta(p *backend.Pagination, page, limit, count int) gin.H {
	if p == nil {
		total := int64(count)
		totalPages := 0
		if count > 0 {
			totalPages = 1
		}
		p = &backend.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
	}
	return gin.H{
		"pagination": gin.H{
			"page":        p.Page,
			"limit":       p.Limit,
			"total":       p.Total,
			"total_pages": p.TotalPages,
		},
	}
}
