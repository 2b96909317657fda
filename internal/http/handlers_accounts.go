package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
)

type accountService interface {
	ListAccounts(ctx context.Context, userID string) ([]core.Account, error)
	AddAccount(ctx context.Context, userID, name string, balance decimal.Decimal) (core.Account, error)
	EnsureDefaultAccount(ctx context.Context, userID string) (core.Account, error)
	UpdateAccountBalance(ctx context.Context, userID, accountID string, delta decimal.Decimal) (core.Account, error)
}

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      accountService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.Finance,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAccounts)
	r.Post("/", h.AddAccount)
	r.Post("/default", h.EnsureDefaultAccount)
	r.Post("/{accountId}/balance", h.UpdateBalance)
	return r
}

func (h *accountHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	accounts, err := h.AccountSvc.ListAccounts(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toAccountViews(accounts))
}

type createAccountRequest struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

func (h *accountHandlers) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		balance, err = decimal.NewFromString(req.Balance)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid balance"))
			return
		}
	}

	uid := middleware.UID(r.Context())
	account, err := h.AccountSvc.AddAccount(r.Context(), uid, req.Name, balance)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, toAccountView(account))
}

func (h *accountHandlers) EnsureDefaultAccount(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	account, err := h.AccountSvc.EnsureDefaultAccount(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toAccountView(account))
}

type updateBalanceRequest struct {
	Delta string `json:"delta"`
}

func (h *accountHandlers) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	var req updateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	delta, err := decimal.NewFromString(req.Delta)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid delta"))
		return
	}

	uid := middleware.UID(r.Context())
	account, err := h.AccountSvc.UpdateAccountBalance(r.Context(), uid, accountID, delta)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toAccountView(account))
}
