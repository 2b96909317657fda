package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
)

type reportService interface {
	FinancialSummary(ctx context.Context, userID string) (core.FinancialSummary, error)
	SpendingByCategory(ctx context.Context, userID string) ([]core.CategorySpend, error)
	MonthlyFinancialData(ctx context.Context, userID string) ([]core.MonthlyPoint, error)
}

type reportHandlers struct {
	ResponseHandler response.ResponseHandler
	ReportSvc       reportService
}

func NewReportHandlers(deps *Deps) *reportHandlers {
	return &reportHandlers{
		ResponseHandler: deps.ResponseHandler,
		ReportSvc:       deps.Finance,
	}
}

func (h *reportHandlers) ReportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.Summary)
	r.Get("/spending", h.SpendingByCategory)
	r.Get("/monthly", h.MonthlyData)
	return r
}

func (h *reportHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	summary, err := h.ReportSvc.FinancialSummary(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, summaryView{
		TotalIncome:   summary.TotalIncome.StringFixed(2),
		TotalExpenses: summary.TotalExpenses.StringFixed(2),
		NetBalance:    summary.NetBalance.StringFixed(2),
	})
}

func (h *reportHandlers) SpendingByCategory(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	spends, err := h.ReportSvc.SpendingByCategory(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	views := make([]categorySpendView, len(spends))
	for i, s := range spends {
		views[i] = categorySpendView{
			Category: s.Category,
			Total:    s.Total.StringFixed(2),
		}
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, views)
}

func (h *reportHandlers) MonthlyData(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	points, err := h.ReportSvc.MonthlyFinancialData(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	views := make([]monthlyPointView, len(points))
	for i, p := range points {
		views[i] = monthlyPointView{
			Month:    p.Month,
			Income:   p.Income.StringFixed(2),
			Expenses: p.Expenses.StringFixed(2),
		}
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, views)
}
