package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/log"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
	"github.com/Rishabh-devloper/wealthwise/internal/services"
)

// --- Test doubles ---

type stubResponseHandler struct {
	successCalled bool
	successStatus int
	successData   any
	handledErr    error
}

func (s *stubResponseHandler) WriteSuccess(_ http.ResponseWriter, status int, data any) {
	s.successCalled = true
	s.successStatus = status
	s.successData = data
}

func (s *stubResponseHandler) WriteError(_ http.ResponseWriter, _ *http.Request, _ int, _, _ string) {
}

func (s *stubResponseHandler) HandleError(_ http.ResponseWriter, _ *http.Request, err error) {
	s.handledErr = err
}

type stubTransactionService struct {
	listResult []core.Transaction
	listErr    error
	lastLimit  int
	lastUID    string

	addResult core.Transaction
	addErr    error
	lastInput services.TransactionInput

	importCount  int
	importErr    error
	lastImported []services.TransactionInput
}

func (s *stubTransactionService) ListTransactions(_ context.Context, userID string, limit int) ([]core.Transaction, error) {
	s.lastUID = userID
	s.lastLimit = limit
	return s.listResult, s.listErr
}

func (s *stubTransactionService) AddTransaction(_ context.Context, userID string, in services.TransactionInput) (core.Transaction, error) {
	s.lastUID = userID
	s.lastInput = in
	return s.addResult, s.addErr
}

func (s *stubTransactionService) ImportTransactions(_ context.Context, userID string, inputs []services.TransactionInput) (int, error) {
	s.lastUID = userID
	s.lastImported = inputs
	return s.importCount, s.importErr
}

type stubGoalService struct {
	contributeResult core.Goal
	contributeErr    error
}

func (s *stubGoalService) ListGoals(context.Context, string) ([]core.Goal, error) {
	return nil, nil
}

func (s *stubGoalService) AddGoal(context.Context, string, string, decimal.Decimal, time.Time) (core.Goal, error) {
	return core.Goal{}, nil
}

func (s *stubGoalService) ContributeToGoal(context.Context, string, string, decimal.Decimal) (core.Goal, error) {
	return s.contributeResult, s.contributeErr
}

type stubSuggester struct {
	category string
	err      error

	lastDescription string
	lastAmount      decimal.Decimal
}

func (s *stubSuggester) SuggestCategory(_ context.Context, description string, amount decimal.Decimal) (string, error) {
	s.lastDescription = description
	s.lastAmount = amount
	return s.category, s.err
}

func withUID(r *http.Request, uid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
	return r.WithContext(ctx)
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError})
}

// --- Transactions ---

func TestListTransactions_PassesLimitAndUID(t *testing.T) {
	svc := &stubTransactionService{
		listResult: []core.Transaction{{ID: "t1", Type: core.Income, Amount: decimal.NewFromInt(5)}},
	}
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: svc}

	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=10", nil)
	req = withUID(req, "uid1")
	h.ListTransactions(httptest.NewRecorder(), req)

	if rh.handledErr != nil {
		t.Fatalf("unexpected error: %v", rh.handledErr)
	}
	if !rh.successCalled || rh.successStatus != http.StatusOK {
		t.Errorf("success = %v status = %d, want OK", rh.successCalled, rh.successStatus)
	}
	if svc.lastLimit != 10 {
		t.Errorf("limit = %d, want 10", svc.lastLimit)
	}
	if svc.lastUID != "uid1" {
		t.Errorf("uid = %s, want uid1", svc.lastUID)
	}
}

func TestListTransactions_InvalidLimit(t *testing.T) {
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: &stubTransactionService{}}

	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=nope", nil)
	h.ListTransactions(httptest.NewRecorder(), req)

	if _, ok := rh.handledErr.(*errs.ValidationError); !ok {
		t.Errorf("error = %v (%T), want ValidationError", rh.handledErr, rh.handledErr)
	}
}

func TestAddTransaction_ParsesBody(t *testing.T) {
	svc := &stubTransactionService{addResult: core.Transaction{ID: "t1"}}
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: svc}

	body := `{"description":"Groceries","amount":"45,99","type":"expense","category":"Food","accountName":"Checking","date":"2024-07-01"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	req = withUID(req, "uid1")
	h.AddTransaction(httptest.NewRecorder(), req)

	if rh.handledErr != nil {
		t.Fatalf("unexpected error: %v", rh.handledErr)
	}
	if rh.successStatus != http.StatusCreated {
		t.Errorf("status = %d, want 201", rh.successStatus)
	}
	in := svc.lastInput
	if !in.Amount.Equal(decimal.NewFromFloat(45.99)) {
		t.Errorf("Amount = %s, want 45.99", in.Amount)
	}
	if in.Type != core.Expense || in.AccountName != "Checking" {
		t.Errorf("input = %+v", in)
	}
	if in.Date.Format(core.DateLayout) != "2024-07-01" {
		t.Errorf("Date = %v, want 2024-07-01", in.Date)
	}
}

func TestAddTransaction_BadAmount(t *testing.T) {
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: &stubTransactionService{}}

	body := `{"description":"x","amount":"abc","type":"expense","category":"Food"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	h.AddTransaction(httptest.NewRecorder(), req)

	if _, ok := rh.handledErr.(*errs.ValidationError); !ok {
		t.Errorf("error = %v (%T), want ValidationError", rh.handledErr, rh.handledErr)
	}
}

func TestImportTransactions_ParsesCSVBody(t *testing.T) {
	svc := &stubTransactionService{importCount: 2}
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: svc}

	body := "date,description,amount,type,category\n" +
		"2024-07-01,Groceries,45.99,expense,Food\n" +
		"2024-07-02,Paycheck,1000,income,Salary\n"
	req := httptest.NewRequest(http.MethodPost, "/transactions/import", strings.NewReader(body))
	req = withUID(req, "uid1")
	h.ImportTransactions(httptest.NewRecorder(), req)

	if rh.handledErr != nil {
		t.Fatalf("unexpected error: %v", rh.handledErr)
	}
	if len(svc.lastImported) != 2 {
		t.Errorf("imported rows = %d, want 2", len(svc.lastImported))
	}
	if rh.successStatus != http.StatusCreated {
		t.Errorf("status = %d, want 201", rh.successStatus)
	}
}

func TestImportTransactions_BadCSV(t *testing.T) {
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: &stubTransactionService{}}

	req := httptest.NewRequest(http.MethodPost, "/transactions/import", strings.NewReader("not,a,known,header\n"))
	h.ImportTransactions(httptest.NewRecorder(), req)

	if _, ok := rh.handledErr.(*errs.ValidationError); !ok {
		t.Errorf("error = %v (%T), want ValidationError", rh.handledErr, rh.handledErr)
	}
}

func TestExportTransactions_WritesCSV(t *testing.T) {
	svc := &stubTransactionService{
		listResult: []core.Transaction{{
			Description: "Groceries",
			Amount:      decimal.NewFromFloat(-45.99),
			Type:        core.Expense,
			Category:    "Food",
			AccountName: "Checking",
			Date:        time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
	rh := &stubResponseHandler{}
	h := &transactionHandlers{ResponseHandler: rh, TransactionSvc: svc}

	req := httptest.NewRequest(http.MethodGet, "/transactions/export", nil)
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.ExportTransactions(rr, req)

	if got := rr.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %s, want text/csv", got)
	}
	if !strings.Contains(rr.Body.String(), "Jul 01, 2024") {
		t.Errorf("body missing export date, got %q", rr.Body.String())
	}
}

// --- Error mapping through the real response handler ---

func TestContribute_OverLimitMapsTo422(t *testing.T) {
	overflow := decimal.NewFromInt(100)
	svc := &stubGoalService{
		contributeErr: errs.NewOverLimitError("contribution exceeds goal target by 100", overflow),
	}
	h := &goalHandlers{
		ResponseHandler: response.New(testLogger()),
		GoalSvc:         svc,
	}

	req := httptest.NewRequest(http.MethodPost, "/goals/g1/contributions", strings.NewReader(`{"amount":"700"}`))
	req = withUID(req, "uid1")
	req = withChiParam(req, "goalId", "g1")
	rr := httptest.NewRecorder()
	h.Contribute(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}

	var body struct {
		Code     string `json:"code"`
		Overflow string `json:"overflow"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Code != "over_limit" {
		t.Errorf("code = %s, want over_limit", body.Code)
	}
	if body.Overflow != "100" {
		t.Errorf("overflow = %s, want 100", body.Overflow)
	}
}

func TestContribute_NotFoundMapsTo404(t *testing.T) {
	svc := &stubGoalService{contributeErr: errs.NewNotFoundError("Goal not found")}
	h := &goalHandlers{
		ResponseHandler: response.New(testLogger()),
		GoalSvc:         svc,
	}

	req := httptest.NewRequest(http.MethodPost, "/goals/g1/contributions", strings.NewReader(`{"amount":"10"}`))
	req = withChiParam(req, "goalId", "g1")
	rr := httptest.NewRecorder()
	h.Contribute(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// --- AI ---

func TestSuggestCategory_RequiresIdentity(t *testing.T) {
	h := &aiHandlers{ResponseHandler: response.New(testLogger())}

	req := httptest.NewRequest(http.MethodPost, "/ai/suggest-category", strings.NewReader(`{"description":"x"}`))
	rr := httptest.NewRecorder()
	h.SuggestCategory(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestSuggestCategory_ForwardsDescriptionAndAmount(t *testing.T) {
	suggester := &stubSuggester{category: "Food"}
	rh := &stubResponseHandler{}
	h := &aiHandlers{ResponseHandler: rh, Suggester: suggester}

	body := `{"description":"Grocery run","amount":"-45.99"}`
	req := httptest.NewRequest(http.MethodPost, "/ai/suggest-category", strings.NewReader(body))
	req = withUID(req, "uid1")
	h.SuggestCategory(httptest.NewRecorder(), req)

	if rh.handledErr != nil {
		t.Fatalf("unexpected error: %v", rh.handledErr)
	}
	if suggester.lastDescription != "Grocery run" {
		t.Errorf("description = %q, want %q", suggester.lastDescription, "Grocery run")
	}
	if !suggester.lastAmount.Equal(decimal.NewFromFloat(-45.99)) {
		t.Errorf("amount = %s, want -45.99", suggester.lastAmount)
	}
	if rh.successStatus != http.StatusOK {
		t.Errorf("status = %d, want 200", rh.successStatus)
	}
}

func TestSuggestCategory_InvalidAmount(t *testing.T) {
	rh := &stubResponseHandler{}
	h := &aiHandlers{ResponseHandler: rh, Suggester: &stubSuggester{category: "Food"}}

	body := `{"description":"x","amount":"lots"}`
	req := httptest.NewRequest(http.MethodPost, "/ai/suggest-category", strings.NewReader(body))
	req = withUID(req, "uid1")
	h.SuggestCategory(httptest.NewRecorder(), req)

	if _, ok := rh.handledErr.(*errs.ValidationError); !ok {
		t.Errorf("error = %v (%T), want ValidationError", rh.handledErr, rh.handledErr)
	}
}

func TestSuggestCategory_DisabledWithoutSuggester(t *testing.T) {
	h := &aiHandlers{ResponseHandler: response.New(testLogger())}

	req := httptest.NewRequest(http.MethodPost, "/ai/suggest-category", strings.NewReader(`{"description":"x"}`))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.SuggestCategory(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}
