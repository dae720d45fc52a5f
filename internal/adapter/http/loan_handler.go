package http

import (
	"errors"
	"net/http"
	"strings"

	domain "loan-origination/internal/domain/loan"
	"loan-origination/internal/usecase/loan"
	"loan-origination/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// HeaderUserID carries the acting staff member on every mutating request.
const HeaderUserID = "Ax-User-Id"

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID      string  `json:"borrower_id" validate:"required,hex32"`
	RequestedAmount float64 `json:"requested_amount" validate:"gt=0,dec2"`
	InterestRate    float64 `json:"interest_rate" validate:"gte=0,lte=1,dec4"`
	TermMonths      int     `json:"term_months" validate:"gte=1,lte=120"`
}

type assessmentReq struct {
	Score int `json:"score" validate:"gte=0,lte=1000"`
}

type committeeDecisionReq struct {
	Approved *bool `json:"approved" validate:"required"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		BorrowerID:      req.BorrowerID,
		RequestedAmount: decimal.NewFromFloat(req.RequestedAmount),
		InterestRate:    decimal.NewFromFloat(req.InterestRate),
		TermMonths:      req.TermMonths,
	})
	if err != nil {
		return loanError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return loanError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) History(c echo.Context) error {
	rows, err := h.uc.History(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return loanError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *LoanHandler) StartReview(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderUserID})
	}
	dto, err := h.uc.StartReview(c.Request().Context(), c.Param("loan_id"), actor)
	if err != nil {
		return loanError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RecordAssessment(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderUserID})
	}
	var req assessmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.RecordAssessment(c.Request().Context(), c.Param("loan_id"), req.Score, actor)
	if err != nil {
		return loanError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RecordCommitteeDecision(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderUserID})
	}
	var req committeeDecisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.RecordCommitteeDecision(c.Request().Context(), c.Param("loan_id"), *req.Approved, actor)
	if err != nil {
		return loanError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func actorID(c echo.Context) (string, bool) {
	actor := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
	return actor, id.Valid(actor)
}

func loanError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPendingLoanExists),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	}
	c.Logger().Errorf("loan request failed: %v", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
