// internal/handlers/contract.go
package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

const maxEvidenceForm = 64 << 20

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// GET /contracts
func (h *ContractHandler) GetContracts(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filter := models.ContractFilter{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: models.ContractStatus(c.Query("status")),
	}

	views, pagination, err := h.contractService.List(c.Request.Context(), viewer, filter)
	if err != nil {
		if isAuthError(err) || errors.Is(err, lifecycle.ErrStaffOnly) {
			respondError(c, err, "", i18n.KeyErrorGeneric)
			return
		}
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Warn("Failed to list contracts")
		views = []services.ContractView{}
		pagination = nil
	}

	utils.SuccessResponseWithMeta(c, views, paginationMeta(pagination, params.Page, params.Limit, len(views)))
}

// GET /contracts/:appointmentId
func (h *ContractHandler) GetContract(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	view, err := h.contractService.Get(c.Request.Context(), viewer, c.Param("appointmentId"))
	if err != nil {
		respondError(c, err, "contract", i18n.KeyErrorGeneric)
		return
	}

	utils.SuccessResponse(c, view)
}

// POST /contracts/:appointmentId/photos
//
// multipart/form-data with seller_photos and buyer_photos, three each.
func (h *ContractHandler) UploadPhotos(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxEvidenceForm); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "photos"), err.Error())
		return
	}
	form := c.Request.MultipartForm

	acknowledged, _ := strconv.ParseBool(c.Request.FormValue("acknowledged"))
	if !acknowledged {
		utils.ConfirmationRequiredResponse(c, i18n.T(lang, i18n.KeyPromptContractUpload))
		return
	}

	evidence := &lifecycle.EvidenceSet{}
	for _, side := range []lifecycle.Side{lifecycle.SideSeller, lifecycle.SideBuyer} {
		for _, header := range form.File[string(side)+"_photos"] {
			file, err := readEvidence(header)
			if err != nil {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "photos"), err.Error())
				return
			}
			if err := services.ValidateEvidence(file); err != nil {
				utils.UnprocessableResponse(c, "INVALID_IMAGE", i18n.T(lang, i18n.KeyEvidenceInvalidImage, header.Filename), err.Error())
				return
			}
			if err := evidence.Add(side, file); err != nil {
				respondError(c, err, "", i18n.KeyActionFailed)
				return
			}
		}
	}

	view, err := h.contractService.UploadEvidence(c.Request.Context(), viewer, c.Param("appointmentId"), evidence)
	if err != nil {
		respondError(c, err, "contract", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /contracts/:appointmentId/complete
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req Acknowledgement
	if !bindAction(c, &req, i18n.KeyPromptContractComplete) {
		return
	}

	view, err := h.contractService.Complete(c.Request.Context(), viewer, c.Param("appointmentId"))
	if err != nil {
		respondError(c, err, "contract", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /contracts/:appointmentId/cancel
func (h *ContractHandler) CancelContract(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	var req ReasonRequest
	if !bindAction(c, &req, i18n.KeyPromptContractCancel) {
		return
	}

	view, err := h.contractService.Cancel(c.Request.Context(), viewer, c.Param("appointmentId"), req.Reason)
	if err != nil {
		respondError(c, err, "contract", i18n.KeyActionFailed)
		return
	}

	utils.SuccessResponse(c, view)
}

func readEvidence(header *multipart.FileHeader) (lifecycle.EvidenceFile, error) {
	f, err := header.Open()
	if err != nil {
		return lifecycle.EvidenceFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return lifecycle.EvidenceFile{}, err
	}
	return lifecycle.EvidenceFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
