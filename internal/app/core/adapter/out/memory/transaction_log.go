package memory

import (
	"github.com/google/uuid"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// TransactionLog 只能追加的交易紀錄，依准入順序保存。
// 本身不加鎖，由持有它的帳本負責同步。
type TransactionLog struct {
	entries []domain.Transaction
	byID    map[uuid.UUID]int
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{
		entries: make([]domain.Transaction, 0),
		byID:    make(map[uuid.UUID]int),
	}
}

// Append 追加一筆交易到尾端
func (l *TransactionLog) Append(tran domain.Transaction) {
	l.byID[tran.ID] = len(l.entries)
	l.entries = append(l.entries, tran)
}

// All 回傳所有交易的副本
func (l *TransactionLog) All() []domain.Transaction {
	out := make([]domain.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// FilterByAccount 回傳指定帳戶的交易副本，沒有紀錄時回傳空 slice
func (l *TransactionLog) FilterByAccount(accountID string) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, tran := range l.entries {
		if tran.AccountID == accountID {
			out = append(out, tran)
		}
	}
	return out
}

// Find 依交易 ID 查詢
func (l *TransactionLog) Find(id uuid.UUID) (domain.Transaction, bool) {
	idx, ok := l.byID[id]
	if !ok {
		return domain.Transaction{}, false
	}
	return l.entries[idx], true
}

func (l *TransactionLog) Len() int {
	return len(l.entries)
}
