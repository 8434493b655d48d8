package http

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Core 是 HTTP 層需要的帳本操作 (由 usecase.CoreUseCase 實作)
type Core interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)
	GetBalance(ctx context.Context, accountID string) (domain.AccountBalance, error)
	GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}

// Server 為 HTTP 層核心結構
type Server struct {
	core Core
}

func NewServer(core Core) *Server {
	return &Server{core: core}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// accountID 取出並驗證路徑上的帳戶 ID
func accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["accountId"]
	if err := validateAccountID(id); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

type postFunc func(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)

// post 存款與提款共用流程：驗證 → 呼叫帳本 → 201 + Location
func (s *Server) post(w http.ResponseWriter, r *http.Request, op string, fn postFunc) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	amount, description, err := decodeTransactionRequest(r.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("Creating %s for account %s", op, id)
	tran, err := fn(r.Context(), id, amount, description)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/accounts/%s/transactions/%s", id, tran.ID))
	writeJSON(w, http.StatusCreated, tran)
}

// POST /api/v1/accounts/{accountId}/deposits
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, "deposit", s.core.Deposit)
}

// POST /api/v1/accounts/{accountId}/withdrawals
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, "withdrawal", s.core.Withdraw)
}

// GET /api/v1/accounts/{accountId}/balance
func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	balance, err := s.core.GetBalance(r.Context(), id)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GET /api/v1/accounts/{accountId}/transactions
func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	history, err := s.core.GetHistory(r.Context(), id)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// GET /api/v1/accounts/{accountId}/transactions/{transactionId}
// 交易屬於其他帳戶時同樣回 404
func (s *Server) transaction(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	txID, err := uuid.Parse(mux.Vars(r)["transactionId"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	tran, err := s.core.GetTransaction(r.Context(), txID)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	if tran.AccountID != id {
		writeLedgerErr(w, domain.ErrTransactionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tran)
}

// GET /api/v1/accounts/transactions
func (s *Server) allTransactions(w http.ResponseWriter, r *http.Request) {
	all, err := s.core.GetAllTransactions(r.Context())
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}
