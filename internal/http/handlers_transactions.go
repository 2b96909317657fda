package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/log"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
	"github.com/Rishabh-devloper/wealthwise/internal/services"
	"github.com/Rishabh-devloper/wealthwise/internal/transfer"
)

type transactionService interface {
	ListTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error)
	AddTransaction(ctx context.Context, userID string, in services.TransactionInput) (core.Transaction, error)
	ImportTransactions(ctx context.Context, userID string, inputs []services.TransactionInput) (int, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.Finance,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	r.Post("/", h.AddTransaction)
	r.Post("/import", h.ImportTransactions)
	r.Get("/export", h.ExportTransactions)
	return r
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid limit"))
			return
		}
		limit = n
	}

	uid := middleware.UID(r.Context())
	txs, err := h.TransactionSvc.ListTransactions(r.Context(), uid, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toTransactionViews(txs))
}

type createTransactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	AccountName string `json:"accountName"`
	Date        string `json:"date"`
}

func (req createTransactionRequest) toInput() (services.TransactionInput, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return services.TransactionInput{}, errs.NewValidationError("invalid amount")
	}

	in := services.TransactionInput{
		Description: req.Description,
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Category:    req.Category,
		AccountName: req.AccountName,
	}

	if req.Date != "" {
		date, err := core.ParseDate(req.Date)
		if err != nil {
			return services.TransactionInput{}, errs.NewValidationError("invalid date")
		}
		in.Date = date
	}
	return in, nil
}

func (h *transactionHandlers) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	tx, err := h.TransactionSvc.AddTransaction(r.Context(), uid, in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, toTransactionView(tx))
}

// ImportTransactions accepts a CSV body and records all rows in one go.
// Any invalid row rejects the whole file.
func (h *transactionHandlers) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	inputs, err := transfer.ReadTransactions(r.Body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError(err.Error()))
		return
	}

	uid := middleware.UID(r.Context())
	count, err := h.TransactionSvc.ImportTransactions(r.Context(), uid, inputs)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, map[string]int{"imported": count})
}

func (h *transactionHandlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	txs, err := h.TransactionSvc.ListTransactions(r.Context(), uid, 0)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := transfer.WriteTransactions(w, txs); err != nil {
		// Headers are already on the wire, log and give up.
		log.FromContext(r.Context()).Error("failed to write CSV export", "error", err)
	}
}
