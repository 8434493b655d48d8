package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind 交易類型
type TransactionKind uint8

const (
	// 存款
	TransactionKindDeposit TransactionKind = 1
	// 提款
	TransactionKindWithdrawal TransactionKind = 2
)

// String 回傳對外使用的類型名稱 (DEPOSIT / WITHDRAWAL)
func (k TransactionKind) String() string {
	switch k {
	case TransactionKindDeposit:
		return "DEPOSIT"
	case TransactionKindWithdrawal:
		return "WITHDRAWAL"
	default:
		return fmt.Sprintf("TransactionKind(%d)", uint8(k))
	}
}

// Sign 存款為 +1，提款為 -1
func (k TransactionKind) Sign() int64 {
	if k == TransactionKindWithdrawal {
		return -1
	}
	return 1
}

func (k TransactionKind) MarshalText() ([]byte, error) {
	switch k {
	case TransactionKindDeposit, TransactionKindWithdrawal:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown transaction kind %d", uint8(k))
}

func (k *TransactionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "DEPOSIT":
		*k = TransactionKindDeposit
	case "WITHDRAWAL":
		*k = TransactionKindWithdrawal
	default:
		return fmt.Errorf("unknown transaction kind %q", text)
	}
	return nil
}

// Transaction 交易紀錄，建立後不可修改。
// 只在存款或提款成功時由帳本建立，並以值的方式傳遞。
type Transaction struct {
	// ID: 交易唯一識別碼 (UUID v4)，永不重複使用
	ID uuid.UUID `json:"id"`
	// Sequence: 全局順序號 (1, 2, 3...)，於臨界區內分配，即為准入順序
	Sequence uint64 `json:"sequence"`
	// AccountID: 帳戶識別碼，帳本本身不檢查格式
	AccountID string `json:"accountId"`
	// Amount: 金額，必定大於 0
	Amount decimal.Decimal `json:"amount"`
	Kind   TransactionKind `json:"type"`
	// Timestamp: 建立時間
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	// BalanceAfter: 此交易成交後的帳戶餘額，由帳本在同一個臨界區內填入
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
}

// NewTransaction 建立一筆新的交易，ID 由此產生
func NewTransaction(sequence uint64, accountID string, amount decimal.Decimal, kind TransactionKind, description string, now time.Time) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Sequence:    sequence,
		AccountID:   accountID,
		Amount:      amount,
		Kind:        kind,
		Timestamp:   now,
		Description: description,
	}
}

// Delta 回傳此交易對餘額的影響 (存款為正，提款為負)
func (t Transaction) Delta() decimal.Decimal {
	if t.Kind == TransactionKindWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Equal 結構相等比較，金額以數值比較 (100.5 == 100.50)
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Sequence == o.Sequence &&
		t.AccountID == o.AccountID &&
		t.Amount.Equal(o.Amount) &&
		t.Kind == o.Kind &&
		t.Timestamp.Equal(o.Timestamp) &&
		t.Description == o.Description &&
		t.BalanceAfter.Equal(o.BalanceAfter)
}

// AccountBalance 帳戶餘額，永遠是交易歷史的投影
type AccountBalance struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// Equal 結構相等比較
func (b AccountBalance) Equal(o AccountBalance) bool {
	return b.AccountID == o.AccountID && b.Balance.Equal(o.Balance)
}
