package http

import (
	"net/http"

	approvalUC "pass-iae-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approvalUC.Usecase }

func NewApprovalHandler(uc *approvalUC.Usecase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

type createApprovalReq struct {
	UserID uint64 `json:"user_id" validate:"required"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	StartAt string `json:"start_at" validate:"required,datetime=2006-01-02"`
	EndAt   string `json:"end_at"   validate:"omitempty,datetime=2006-01-02"`
	// Number is only set when importing an approval issued elsewhere.
	Number                 string  `json:"number" validate:"omitempty,min=12,max=15"`
	EligibilityDiagnosisID *uint64 `json:"eligibility_diagnosis_id"`
}

func (h *ApprovalHandler) Create(c echo.Context) error {
	var req createApprovalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := approvalUC.CreateInput{
		UserID:                 req.UserID,
		Number:                 req.Number,
		EligibilityDiagnosisID: req.EligibilityDiagnosisID,
	}
	var err error
	if in.StartAt, err = parseDate(req.StartAt); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_at"})
	}
	if req.EndAt != "" {
		if in.EndAt, err = parseDate(req.EndAt); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_at"})
		}
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApprovalHandler) Get(c echo.Context) error {
	number := c.Param("number")
	if number == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing number path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), number)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type postponeReq struct {
	StartAt string `json:"start_at" validate:"required,datetime=2006-01-02"`
}

func (h *ApprovalHandler) Postpone(c echo.Context) error {
	number := c.Param("number")
	var req postponeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	startAt, err := parseDate(req.StartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_at"})
	}

	dto, err := h.uc.Postpone(c.Request().Context(), number, startAt)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type unsuspendReq struct {
	HiringStartAt string `json:"hiring_start_at" validate:"required,datetime=2006-01-02"`
}

func (h *ApprovalHandler) Unsuspend(c echo.Context) error {
	number := c.Param("number")
	var req unsuspendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	hiringStartAt, err := parseDate(req.HiringStartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hiring_start_at"})
	}

	if err := h.uc.Unsuspend(c.Request().Context(), number, hiringStartAt); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ApprovalHandler) Delete(c echo.Context) error {
	number := c.Param("number")
	if err := h.uc.Delete(c.Request().Context(), number); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
