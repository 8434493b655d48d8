package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面。
// 每個操作對 (交易紀錄, 餘額索引) 都是一次原子轉換；失敗的操作不會留下任何變更。
type Ledger interface {
	// Deposit 存款，金額 <= 0 回傳 domain.ErrInvalidAmount
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)
	// Withdraw 提款，餘額不足回傳 domain.ErrInsufficientFunds
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)
	// GetBalance 取得帳戶餘額，未知帳戶為 0
	GetBalance(ctx context.Context, accountID string) (domain.AccountBalance, error)
	// GetHistory 取得帳戶交易紀錄 (准入順序)
	GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error)
	// GetAllTransactions 取得所有交易紀錄 (准入順序)
	GetAllTransactions(ctx context.Context) ([]domain.Transaction, error)
	// GetTransaction 依交易 ID 查詢
	GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}
