package journal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/pkg/journal"
)

func TestSinkWritesTransactions(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "audit.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	sink := NewSink(j)
	want := []domain.Transaction{
		domain.NewTransaction(1, "acc1234567", decimal.RequireFromString("100.50"), domain.TransactionKindDeposit, "in", time.Now()),
		domain.NewTransaction(2, "acc1234567", decimal.RequireFromString("0.50"), domain.TransactionKindWithdrawal, "out", time.Now()),
	}
	for _, tran := range want {
		if err := sink.Record(context.Background(), tran); err != nil {
			t.Fatal(err)
		}
	}

	var got []domain.Transaction
	err = j.ReadAll(func(raw json.RawMessage) error {
		var tran domain.Transaction
		if err := json.Unmarshal(raw, &tran); err != nil {
			return err
		}
		got = append(got, tran)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got[0].Equal(want[0]) || !got[1].Equal(want[1]) {
		t.Fatalf("got=%+v", got)
	}
}
