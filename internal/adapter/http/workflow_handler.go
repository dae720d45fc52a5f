package http

import (
	"errors"
	"net/http"

	domain "loan-origination/internal/domain/loan"
	wf "loan-origination/internal/domain/workflow"
	"loan-origination/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

type WorkflowHandler struct{ uc *workflow.Usecase }

func NewWorkflowHandler(uc *workflow.Usecase) *WorkflowHandler { return &WorkflowHandler{uc: uc} }

type actionReq struct {
	DocumentURL string `json:"document_url" validate:"omitempty,url"`
}

var outcomeStatus = map[workflow.Reason]int{
	workflow.ReasonNone:                    http.StatusOK,
	workflow.ReasonInvalidAction:           http.StatusBadRequest,
	workflow.ReasonInvalidTransition:       http.StatusConflict,
	workflow.ReasonConcurrentModification:  http.StatusConflict,
	workflow.ReasonNotFound:                http.StatusNotFound,
	workflow.ReasonCollaboratorUnavailable: http.StatusServiceUnavailable,
}

// StatusFor maps an outcome to the HTTP status it is served with.
func StatusFor(out workflow.Outcome) int {
	if out.Success {
		return http.StatusOK
	}
	if code, ok := outcomeStatus[out.Reason]; ok && code != http.StatusOK {
		return code
	}
	return http.StatusInternalServerError
}

func (h *WorkflowHandler) State(c echo.Context) error {
	st, err := h.uc.State(c.Request().Context(), c.Param("loan_id"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, st)
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	c.Logger().Errorf("workflow state: %v", err)
	return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "workflow state unavailable"})
}

func (h *WorkflowHandler) Execute(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderUserID})
	}
	var req actionReq
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	action := wf.Action(c.Param("action"))
	if action == wf.ActionUploadContract && req.DocumentURL == "" {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "DocumentURL", Message: "is required"}},
		})
	}

	out := h.uc.Execute(c.Request().Context(), workflow.ActionInput{
		Action:      action,
		LoanID:      c.Param("loan_id"),
		UserID:      actor,
		DocumentURL: req.DocumentURL,
	})
	return c.JSON(StatusFor(out), out)
}

func (h *WorkflowHandler) ApprovalLevels(c echo.Context) error {
	levels, err := h.uc.ApprovalLevels(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("approval levels: %v", err)
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "approval levels unavailable"})
	}
	return c.JSON(http.StatusOK, levels)
}
