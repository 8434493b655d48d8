package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	state: 交易紀錄與餘額索引
//	mu: 保護整個 state 的唯一一把鎖
//
// 寫入 (存款/提款) 取寫鎖，查詢取讀鎖，因此查詢永遠看不到寫入到一半的狀態。
type MutexLedger struct {
	mu    sync.RWMutex
	state *ledgerState
}

// NewMutexLedger 建立一個空的 MutexLedger 實例
func NewMutexLedger() *MutexLedger {
	return &MutexLedger{
		state: newLedgerState(),
	}
}

// Deposit 存款
//
// 參數:
//
//	ctx: 上下文
//	accountID: 帳戶 ID
//	amount: 金額，必須大於 0
//	description: 交易說明
//
// 回傳:
//
//	domain.Transaction: 新建立的交易
//	error: domain.ErrInvalidAmount
func (m *MutexLedger) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.admit(accountID, amount, domain.TransactionKindDeposit, description)
}

// Withdraw 提款
//
// 參數:
//
//	ctx: 上下文
//	accountID: 帳戶 ID
//	amount: 金額，必須大於 0 且不超過目前餘額
//	description: 交易說明
//
// 回傳:
//
//	domain.Transaction: 新建立的交易
//	error: domain.ErrInvalidAmount 或 domain.ErrInsufficientFunds
func (m *MutexLedger) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.admit(accountID, amount, domain.TransactionKindWithdrawal, description)
}

// GetBalance 取得帳戶餘額，沒有紀錄的帳戶回傳 0
func (m *MutexLedger) GetBalance(ctx context.Context, accountID string) (domain.AccountBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.balance(accountID), nil
}

// GetHistory 取得帳戶的交易紀錄 (依准入順序)
func (m *MutexLedger) GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.log.FilterByAccount(accountID), nil
}

// GetAllTransactions 取得所有帳戶的交易紀錄
func (m *MutexLedger) GetAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.log.All(), nil
}

// GetTransaction 依交易 ID 查詢
func (m *MutexLedger) GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tran, ok := m.state.log.Find(id)
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return tran, nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)
