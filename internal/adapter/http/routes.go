package http

import "github.com/labstack/echo/v4"

type Routes struct {
	Health   *Handler
	Loans    *LoanHandler
	Workflow *WorkflowHandler
	Metrics  echo.HandlerFunc
	// Mutating applies to every POST route, e.g. the idempotency middleware.
	Mutating []echo.MiddlewareFunc
}

// Register mounts every route on e. Nil handlers are skipped.
func (r Routes) Register(e *echo.Echo) {
	if r.Health != nil {
		e.GET("/health", r.Health.Health)
	}
	if r.Metrics != nil {
		e.GET("/metrics", r.Metrics)
	}
	if r.Workflow != nil {
		e.GET("/approval-levels", r.Workflow.ApprovalLevels)
	}

	loans := e.Group("/loans")
	if r.Loans != nil {
		loans.POST("", r.Loans.CreateLoan, r.Mutating...)
		loans.GET("/:loan_id", r.Loans.GetLoan)
		loans.GET("/:loan_id/transitions", r.Loans.History)
		loans.POST("/:loan_id/review", r.Loans.StartReview, r.Mutating...)
		loans.POST("/:loan_id/assessment", r.Loans.RecordAssessment, r.Mutating...)
		loans.POST("/:loan_id/committee-decision", r.Loans.RecordCommitteeDecision, r.Mutating...)
	}
	if r.Workflow != nil {
		loans.GET("/:loan_id/workflow", r.Workflow.State)
		loans.POST("/:loan_id/actions/:action", r.Workflow.Execute, r.Mutating...)
	}
}

// NewEcho returns an echo instance with the go-json serializer and validator installed.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
	return e
}
