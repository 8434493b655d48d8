package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// ledgerState 帳本的完整狀態 (交易紀錄 + 餘額索引)。
// 所有方法都假設呼叫端已經在臨界區內 (Mutex 或單一寫入 goroutine)。
type ledgerState struct {
	log      *TransactionLog
	balances *BalanceIndex
	now      func() time.Time
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		log:      NewTransactionLog(),
		balances: NewBalanceIndex(),
		now:      time.Now,
	}
}

// admit 驗證 → 更新餘額 → 追加紀錄。任一檢查失敗時狀態完全不變。
func (s *ledgerState) admit(accountID string, amount decimal.Decimal, kind domain.TransactionKind, description string) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	if kind == domain.TransactionKindWithdrawal && s.balances.Get(accountID).LessThan(amount) {
		return domain.Transaction{}, domain.ErrInsufficientFunds
	}

	tran := domain.NewTransaction(uint64(s.log.Len())+1, accountID, amount, kind, description, s.now())
	tran.BalanceAfter = s.balances.Adjust(accountID, tran.Delta())
	s.log.Append(tran)
	return tran, nil
}

func (s *ledgerState) balance(accountID string) domain.AccountBalance {
	return domain.AccountBalance{
		AccountID: accountID,
		Balance:   s.balances.Get(accountID),
	}
}
