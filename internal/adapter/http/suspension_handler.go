package http

import (
	"net/http"

	suspensionDomain "pass-iae-backend/internal/domain/suspension"
	suspensionUC "pass-iae-backend/internal/usecase/suspension"

	"github.com/labstack/echo/v4"
)

type SuspensionHandler struct{ uc *suspensionUC.Usecase }

func NewSuspensionHandler(uc *suspensionUC.Usecase) *SuspensionHandler {
	return &SuspensionHandler{uc: uc}
}

type suspensionReq struct {
	StartAt           string  `json:"start_at" validate:"required,datetime=2006-01-02"`
	EndAt             string  `json:"end_at"   validate:"required,datetime=2006-01-02"`
	Reason            string  `json:"reason"   validate:"required"`
	ReasonExplanation string  `json:"reason_explanation"`
	EnterpriseID      *uint64 `json:"enterprise_id"`
}

func (h *SuspensionHandler) Create(c echo.Context) error {
	number := c.Param("number")
	var req suspensionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := suspensionUC.CreateInput{
		ApprovalNumber:    number,
		Reason:            suspensionDomain.Reason(req.Reason),
		ReasonExplanation: req.ReasonExplanation,
		EnterpriseID:      req.EnterpriseID,
	}
	var err error
	if in.StartAt, err = parseDate(req.StartAt); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_at"})
	}
	if in.EndAt, err = parseDate(req.EndAt); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_at"})
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SuspensionHandler) Update(c echo.Context) error {
	number := c.Param("number")
	publicID := c.Param("id")
	var req suspensionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := suspensionUC.UpdateInput{
		Reason:            suspensionDomain.Reason(req.Reason),
		ReasonExplanation: req.ReasonExplanation,
	}
	var err error
	if in.StartAt, err = parseDate(req.StartAt); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_at"})
	}
	if in.EndAt, err = parseDate(req.EndAt); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_at"})
	}

	dto, err := h.uc.Update(c.Request().Context(), number, publicID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SuspensionHandler) Delete(c echo.Context) error {
	number := c.Param("number")
	publicID := c.Param("id")
	if err := h.uc.Delete(c.Request().Context(), number, publicID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
