package grpc

import (
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// TransactionRequest 存款/提款請求，amount 為十進位字串以保持精確
type TransactionRequest struct {
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Transaction 交易的傳輸格式
type Transaction struct {
	ID           string `json:"id"`
	Sequence     uint64 `json:"sequence"`
	AccountID    string `json:"account_id"`
	Amount       string `json:"amount"`
	Type         string `json:"type"`
	Timestamp    string `json:"timestamp"`
	Description  string `json:"description"`
	BalanceAfter string `json:"balance_after"`
}

type TransactionReply struct {
	Transaction *Transaction `json:"transaction"`
}

type TransactionsReply struct {
	Transactions []*Transaction `json:"transactions"`
}

type BalanceReply struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

func toPBTransaction(tran domain.Transaction) *Transaction {
	return &Transaction{
		ID:           tran.ID.String(),
		Sequence:     tran.Sequence,
		AccountID:    tran.AccountID,
		Amount:       tran.Amount.String(),
		Type:         tran.Kind.String(),
		Timestamp:    tran.Timestamp.Format(time.RFC3339Nano),
		Description:  tran.Description,
		BalanceAfter: tran.BalanceAfter.String(),
	}
}

func toPBTransactions(trans []domain.Transaction) []*Transaction {
	out := make([]*Transaction, 0, len(trans))
	for _, tran := range trans {
		out = append(out, toPBTransaction(tran))
	}
	return out
}
