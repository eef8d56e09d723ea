package http

import (
	"net/http"

	prolongationDomain "pass-iae-backend/internal/domain/prolongation"
	prolongationUC "pass-iae-backend/internal/usecase/prolongation"

	"github.com/labstack/echo/v4"
)

type ProlongationHandler struct{ uc *prolongationUC.Usecase }

func NewProlongationHandler(uc *prolongationUC.Usecase) *ProlongationHandler {
	return &ProlongationHandler{uc: uc}
}

type createProlongationReq struct {
	EndAt             string `json:"end_at" validate:"required,datetime=2006-01-02"`
	Reason            string `json:"reason" validate:"required,oneof=SENIOR_CDI COMPLETE_TRAINING RQTH SENIOR PARTICULAR_DIFFICULTIES HEALTH_CONTEXT"`
	ReasonExplanation string `json:"reason_explanation"`

	DeclaredByEnterpriseID   *uint64 `json:"enterprise_id"`
	ValidatedBy              *uint64 `json:"validated_by"`
	PrescriberOrganizationID *uint64 `json:"prescriber_organization_id"`

	ReportFileKey string `json:"report_file_key"`

	RequirePhoneInterview bool   `json:"require_phone_interview"`
	ContactEmail          string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone          string `json:"contact_phone"`
}

func (h *ProlongationHandler) Create(c echo.Context) error {
	number := c.Param("number")
	var req createProlongationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := prolongationUC.CreateInput{
		ApprovalNumber:           number,
		Reason:                   prolongationDomain.Reason(req.Reason),
		ReasonExplanation:        req.ReasonExplanation,
		DeclaredByEnterpriseID:   req.DeclaredByEnterpriseID,
		ValidatedBy:              req.ValidatedBy,
		PrescriberOrganizationID: req.PrescriberOrganizationID,
		ReportFileKey:            req.ReportFileKey,
		RequirePhoneInterview:    req.RequirePhoneInterview,
		ContactEmail:             req.ContactEmail,
		ContactPhone:             req.ContactPhone,
	}
	var err error
	if in.EndAt, err = parseDate(req.EndAt); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_at"})
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
