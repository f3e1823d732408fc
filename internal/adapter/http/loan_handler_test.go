package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "kahawa-backend/internal/domain/loan"
	"kahawa-backend/internal/testutil/loanmock"
	"kahawa-backend/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func activeLoan(id string, amount float64) *domain.Loan {
	now := time.Now().UTC()
	return &domain.Loan{
		ID:              id,
		FarmerID:        strings.Repeat("f", 32),
		FarmerName:      "Wanjiku Kamau",
		Amount:          amount,
		Status:          domain.StatusActive,
		Payments:        []domain.Payment{},
		RemainingAmount: amount,
		CreatedAt:       now,
	}
}

const loanID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// -------- tests --------

func TestRecordPayment_Success(t *testing.T) {
	e := newEchoWithValidator()

	repo := &loanmock.Repo{
		GetFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return activeLoan(id, 10000), nil
		},
		SaveFn: func(ctx context.Context, l *domain.Loan) error { return nil },
	}
	h := NewLoanHandler(ledger.NewUsecase(repo, false))

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+loanID+"/payments", mustJSON(map[string]any{"amount": 4000}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-Operator-Id", strings.Repeat("0", 32))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/payments")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	var dto ledger.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.RemainingAmount != 6000 || dto.Progress != 40 {
		t.Fatalf("remaining=%v progress=%d, want 6000/40", dto.RemainingAmount, dto.Progress)
	}
	if len(dto.Payments) != 1 || dto.Payments[0].RecordedBy != strings.Repeat("0", 32) {
		t.Fatalf("payment not recorded with operator: %+v", dto.Payments)
	}
}

func TestRecordPayment_ValidationFailure(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(ledger.NewUsecase(&loanmock.Repo{}, false))

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+loanID+"/payments", mustJSON(map[string]any{"amount": -5}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestRecordPayment_TerminalLoanConflict(t *testing.T) {
	e := newEchoWithValidator()
	repo := &loanmock.Repo{
		GetFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			l := activeLoan(id, 10000)
			l.Status = domain.StatusRepaid
			return l, nil
		},
	}
	h := NewLoanHandler(ledger.NewUsecase(repo, false))

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+loanID+"/payments", mustJSON(map[string]any{"amount": 100}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(ledger.NewUsecase(&loanmock.Repo{}, false))

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans/"+loanID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.GetLoan(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMarkDefaulted_Success(t *testing.T) {
	e := newEchoWithValidator()
	repo := &loanmock.Repo{
		GetFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return activeLoan(id, 10000), nil
		},
		SaveFn: func(ctx context.Context, l *domain.Loan) error {
			if l.Status != domain.StatusDefaulted {
				t.Fatalf("saved status = %s, want defaulted", l.Status)
			}
			return nil
		},
	}
	h := NewLoanHandler(ledger.NewUsecase(repo, false))

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+loanID+"/default", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.MarkDefaulted(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListLoans_ByStatus(t *testing.T) {
	e := newEchoWithValidator()
	repo := &loanmock.Repo{
		ListFn: func(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
			if status != domain.StatusActive {
				t.Fatalf("status filter = %s, want active", status)
			}
			return []domain.Loan{*activeLoan(loanID, 5000)}, nil
		},
	}
	h := NewLoanHandler(ledger.NewUsecase(repo, false))

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans?status=active", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListLoans(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), loanID) {
		t.Fatalf("body missing loan: %s", rec.Body.String())
	}
}
