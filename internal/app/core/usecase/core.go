package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Publisher 接收已成交的交易 (例如 AuditDispatcher)
type Publisher interface {
	Publish(tran domain.Transaction)
}

// CoreUseCase 是核心業務邏輯層，所有傳輸層 (HTTP/gRPC) 都透過它操作帳本
type CoreUseCase struct {
	ledger    Ledger
	publisher Publisher
}

// CoreOption 定義了 CoreUseCase 的配置選項函數
type CoreOption func(*CoreUseCase)

// WithPublisher 設定成交後的交易接收者
func WithPublisher(p Publisher) CoreOption {
	return func(c *CoreUseCase) {
		c.publisher = p
	}
}

func NewCoreUseCase(ledger Ledger, opts ...CoreOption) *CoreUseCase {
	c := &CoreUseCase{
		ledger: ledger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	tran, err := c.ledger.Deposit(ctx, accountID, amount, description)
	if err != nil {
		c.logRejected("Deposit", accountID, amount, err)
		return domain.Transaction{}, err
	}
	c.committed("Deposit", tran)
	return tran, nil
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	tran, err := c.ledger.Withdraw(ctx, accountID, amount, description)
	if err != nil {
		c.logRejected("Withdrawal", accountID, amount, err)
		return domain.Transaction{}, err
	}
	c.committed("Withdrawal", tran)
	return tran, nil
}

// GetBalance 取得帳戶餘額
func (c *CoreUseCase) GetBalance(ctx context.Context, accountID string) (domain.AccountBalance, error) {
	return c.ledger.GetBalance(ctx, accountID)
}

// GetHistory 取得帳戶交易紀錄
func (c *CoreUseCase) GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	return c.ledger.GetHistory(ctx, accountID)
}

// GetAllTransactions 取得所有交易紀錄
func (c *CoreUseCase) GetAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return c.ledger.GetAllTransactions(ctx)
}

// GetTransaction 依交易 ID 查詢
func (c *CoreUseCase) GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	return c.ledger.GetTransaction(ctx, id)
}

func (c *CoreUseCase) committed(op string, tran domain.Transaction) {
	log.Printf("%s successful - Account: %s, Amount: %s, New Balance: %s, Transaction ID: %s, Sequence: %d",
		op, tran.AccountID, tran.Amount, tran.BalanceAfter, tran.ID, tran.Sequence)
	if c.publisher != nil {
		c.publisher.Publish(tran)
	}
}

func (c *CoreUseCase) logRejected(op, accountID string, amount decimal.Decimal, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		log.Printf("Invalid %s amount %s - Account: %s", op, amount, accountID)
	case errors.Is(err, domain.ErrInsufficientFunds):
		log.Printf("Insufficient funds - Account: %s, Requested: %s", accountID, amount)
	default:
		log.Printf("%s failed - Account: %s, Amount: %s: %v", op, accountID, amount, err)
	}
}
