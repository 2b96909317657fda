package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
)

type goalService interface {
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	AddGoal(ctx context.Context, userID, name string, target decimal.Decimal, deadline time.Time) (core.Goal, error)
	ContributeToGoal(ctx context.Context, userID, goalID string, amount decimal.Decimal) (core.Goal, error)
}

type goalHandlers struct {
	ResponseHandler response.ResponseHandler
	GoalSvc         goalService
}

func NewGoalHandlers(deps *Deps) *goalHandlers {
	return &goalHandlers{
		ResponseHandler: deps.ResponseHandler,
		GoalSvc:         deps.Finance,
	}
}

func (h *goalHandlers) GoalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListGoals)
	r.Post("/", h.AddGoal)
	r.Post("/{goalId}/contributions", h.Contribute)
	return r
}

func (h *goalHandlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	goals, err := h.GoalSvc.ListGoals(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toGoalViews(goals))
}

type createGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline"`
}

func (h *goalHandlers) AddGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	target, err := core.ParseAmount(req.TargetAmount)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid target amount"))
		return
	}

	var deadline time.Time
	if req.Deadline != "" {
		deadline, err = core.ParseDate(req.Deadline)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid deadline"))
			return
		}
	}

	uid := middleware.UID(r.Context())
	goal, err := h.GoalSvc.AddGoal(r.Context(), uid, req.Name, target, deadline)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, toGoalView(goal))
}

type contributeRequest struct {
	Amount string `json:"amount"`
}

func (h *goalHandlers) Contribute(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalId")

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid amount"))
		return
	}

	uid := middleware.UID(r.Context())
	goal, err := h.GoalSvc.ContributeToGoal(r.Context(), uid, goalID, amount)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toGoalView(goal))
}
