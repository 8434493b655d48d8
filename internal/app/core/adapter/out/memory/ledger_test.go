package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// engines 兩種帳本實作都要滿足同樣的性質
var engines = []struct {
	name string
	new  func(t *testing.T) usecase.Ledger
}{
	{"mutex", func(t *testing.T) usecase.Ledger { return NewMutexLedger() }},
	{"lmax", func(t *testing.T) usecase.Ledger {
		l := NewLMAXLedger(16)
		ctx, cancel := context.WithCancel(context.Background())
		l.Start(ctx)
		t.Cleanup(func() {
			cancel()
			l.Close()
		})
		return l
	}},
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balanceOf(t *testing.T, l usecase.Ledger, id string) decimal.Decimal {
	t.Helper()
	b, err := l.GetBalance(context.Background(), id)
	if err != nil {
		t.Fatalf("GetBalance(%s) err=%v", id, err)
	}
	if b.AccountID != id {
		t.Fatalf("GetBalance account=%s want=%s", b.AccountID, id)
	}
	return b.Balance
}

func historyOf(t *testing.T, l usecase.Ledger, id string) []domain.Transaction {
	t.Helper()
	h, err := l.GetHistory(context.Background(), id)
	if err != nil {
		t.Fatalf("GetHistory(%s) err=%v", id, err)
	}
	return h
}

func allOf(t *testing.T, l usecase.Ledger) []domain.Transaction {
	t.Helper()
	all, err := l.GetAllTransactions(context.Background())
	if err != nil {
		t.Fatalf("GetAllTransactions err=%v", err)
	}
	return all
}

// checkInvariant 餘額必須等於存款總和減提款總和
func checkInvariant(t *testing.T, l usecase.Ledger) {
	t.Helper()
	net := map[string]decimal.Decimal{}
	for _, tran := range allOf(t, l) {
		net[tran.AccountID] = net[tran.AccountID].Add(tran.Delta())
	}
	for id, want := range net {
		if got := balanceOf(t, l, id); !got.Equal(want) {
			t.Fatalf("account %s balance=%s net of history=%s", id, got, want)
		}
		if balanceOf(t, l, id).IsNegative() {
			t.Fatalf("account %s went negative", id)
		}
	}
}

func TestDepositFreshAccount(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()

			tran, err := l.Deposit(ctx, "acc1234567", d("100.50"), "Initial deposit")
			if err != nil {
				t.Fatal(err)
			}
			if tran.Kind != domain.TransactionKindDeposit || !tran.Amount.Equal(d("100.50")) {
				t.Fatalf("got=%+v", tran)
			}
			if tran.AccountID != "acc1234567" || tran.Description != "Initial deposit" {
				t.Fatalf("got=%+v", tran)
			}
			if tran.ID == uuid.Nil || tran.Timestamp.IsZero() || tran.Sequence != 1 {
				t.Fatalf("id/timestamp/sequence not set: %+v", tran)
			}
			if bal := balanceOf(t, l, "acc1234567"); !bal.Equal(d("100.50")) {
				t.Fatalf("balance=%s want=100.50", bal)
			}
		})
	}
}

func TestDepositWithdrawSequence(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()
			const id = "acc1234567"

			t1, err := l.Deposit(ctx, id, d("300"), "salary")
			if err != nil {
				t.Fatal(err)
			}
			t2, err := l.Withdraw(ctx, id, d("100"), "rent")
			if err != nil {
				t.Fatal(err)
			}
			t3, err := l.Deposit(ctx, id, d("50"), "refund")
			if err != nil {
				t.Fatal(err)
			}

			if bal := balanceOf(t, l, id); !bal.Equal(d("250")) {
				t.Fatalf("balance=%s want=250", bal)
			}
			for i, want := range []string{"300", "200", "250"} {
				if got := []domain.Transaction{t1, t2, t3}[i].BalanceAfter; !got.Equal(d(want)) {
					t.Fatalf("tx%d BalanceAfter=%s want=%s", i+1, got, want)
				}
			}
			h := historyOf(t, l, id)
			want := []domain.Transaction{t1, t2, t3}
			if len(h) != len(want) {
				t.Fatalf("history len=%d want=%d", len(h), len(want))
			}
			for i := range want {
				if !h[i].Equal(want[i]) {
					t.Fatalf("history[%d]=%+v want=%+v", i, h[i], want[i])
				}
			}
			if h[1].Kind != domain.TransactionKindWithdrawal {
				t.Fatalf("history[1] kind=%v", h[1].Kind)
			}
			checkInvariant(t, l)
		})
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()
			const id = "acc1234567"

			if _, err := l.Withdraw(ctx, id, d("100"), "ATM"); !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Fatalf("want ErrInsufficientFunds, got %v", err)
			}
			if bal := balanceOf(t, l, id); !bal.IsZero() {
				t.Fatalf("balance=%s want=0", bal)
			}
			if h := historyOf(t, l, id); len(h) != 0 {
				t.Fatalf("history len=%d want=0", len(h))
			}

			// 餘額剛好足夠可以提領，多一分都不行
			if _, err := l.Deposit(ctx, id, d("10.01"), "top up"); err != nil {
				t.Fatal(err)
			}
			if _, err := l.Withdraw(ctx, id, d("10.02"), "too much"); !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Fatalf("want ErrInsufficientFunds, got %v", err)
			}
			if _, err := l.Withdraw(ctx, id, d("10.01"), "all"); err != nil {
				t.Fatal(err)
			}
			if bal := balanceOf(t, l, id); !bal.IsZero() {
				t.Fatalf("balance=%s want=0", bal)
			}
			if n := len(allOf(t, l)); n != 2 {
				t.Fatalf("transactions=%d want=2", n)
			}
			checkInvariant(t, l)
		})
	}
}

func TestInvalidAmount(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()
			const id = "acc1234567"

			for _, amt := range []string{"0", "-50", "-0.0001"} {
				if _, err := l.Deposit(ctx, id, d(amt), "bad"); !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("Deposit(%s) want ErrInvalidAmount, got %v", amt, err)
				}
				if _, err := l.Withdraw(ctx, id, d(amt), "bad"); !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("Withdraw(%s) want ErrInvalidAmount, got %v", amt, err)
				}
			}
			if n := len(allOf(t, l)); n != 0 {
				t.Fatalf("transactions=%d want=0", n)
			}
			if bal := balanceOf(t, l, id); !bal.IsZero() {
				t.Fatalf("balance=%s want=0", bal)
			}
		})
	}
}

func TestHistoryIsolatedPerAccount(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()

			x1, err := l.Deposit(ctx, "accountXXX", d("100"), "x")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := l.Deposit(ctx, "accountYYY", d("200"), "y"); err != nil {
				t.Fatal(err)
			}
			x2, err := l.Withdraw(ctx, "accountXXX", d("50"), "x")
			if err != nil {
				t.Fatal(err)
			}

			all := allOf(t, l)
			if len(all) != 3 {
				t.Fatalf("all len=%d want=3", len(all))
			}
			for i, tran := range all {
				if tran.Sequence != uint64(i+1) {
					t.Fatalf("all[%d].Sequence=%d", i, tran.Sequence)
				}
			}
			h := historyOf(t, l, "accountXXX")
			if len(h) != 2 || !h[0].Equal(x1) || !h[1].Equal(x2) {
				t.Fatalf("history X=%+v", h)
			}
			if h := historyOf(t, l, "unknown123"); h == nil || len(h) != 0 {
				t.Fatalf("unknown history=%v want empty", h)
			}
			checkInvariant(t, l)
		})
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()
			if _, err := l.Deposit(ctx, "acc1234567", d("5"), "x"); err != nil {
				t.Fatal(err)
			}

			all := allOf(t, l)
			all[0].Amount = d("1000000")
			h := historyOf(t, l, "acc1234567")
			h[0].AccountID = "hijacked!!"

			again := allOf(t, l)
			if !again[0].Amount.Equal(d("5")) || again[0].AccountID != "acc1234567" {
				t.Fatalf("internal state mutated through returned slice: %+v", again[0])
			}
		})
	}
}

func TestGetTransaction(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()
			tran, err := l.Deposit(ctx, "acc1234567", d("1"), "x")
			if err != nil {
				t.Fatal(err)
			}
			got, err := l.GetTransaction(ctx, tran.ID)
			if err != nil || !got.Equal(tran) {
				t.Fatalf("got=%+v err=%v", got, err)
			}
			if _, err := l.GetTransaction(ctx, uuid.New()); !errors.Is(err, domain.ErrTransactionNotFound) {
				t.Fatalf("want ErrTransactionNotFound, got %v", err)
			}
		})
	}
}

// TestConcurrentDeposits N 個併發存款不可遺失任何更新
func TestConcurrentDeposits(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			const n = 500
			var wg sync.WaitGroup
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func() {
					defer wg.Done()
					if _, err := l.Deposit(context.Background(), "acc1234567", d("0.10"), "c"); err != nil {
						t.Error(err)
					}
				}()
			}
			wg.Wait()
			if bal := balanceOf(t, l, "acc1234567"); !bal.Equal(d("50")) {
				t.Fatalf("balance=%s want=50", bal)
			}
			if n := len(allOf(t, l)); n != 500 {
				t.Fatalf("transactions=%d want=500", n)
			}
		})
	}
}

// TestConcurrentWithdrawalsNeverOverdraw 併發提款不可讓餘額變負
func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			l := e.new(t)
			ctx := context.Background()
			if _, err := l.Deposit(ctx, "acc1234567", d("100"), "seed"); err != nil {
				t.Fatal(err)
			}

			const n = 200
			var (
				wg sync.WaitGroup
				mu sync.Mutex
				ok int
			)
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func() {
					defer wg.Done()
					_, err := l.Withdraw(ctx, "acc1234567", d("1"), "w")
					switch {
					case err == nil:
						mu.Lock()
						ok++
						mu.Unlock()
					case !errors.Is(err, domain.ErrInsufficientFunds):
						t.Error(err)
					}
				}()
			}
			wg.Wait()
			if ok != 100 {
				t.Fatalf("successful withdrawals=%d want=100", ok)
			}
			if bal := balanceOf(t, l, "acc1234567"); !bal.IsZero() {
				t.Fatalf("balance=%s want=0", bal)
			}
			checkInvariant(t, l)
		})
	}
}

func TestLMAXLedgerClosed(t *testing.T) {
	l := NewLMAXLedger(4)
	l.Start(context.Background())
	if _, err := l.Deposit(context.Background(), "acc1234567", d("1"), "x"); err != nil {
		t.Fatal(err)
	}
	l.Close()
	l.Close()

	if _, err := l.Deposit(context.Background(), "acc1234567", d("1"), "x"); !errors.Is(err, domain.ErrLedgerClosed) {
		t.Fatalf("want ErrLedgerClosed, got %v", err)
	}
	if _, err := l.GetBalance(context.Background(), "acc1234567"); !errors.Is(err, domain.ErrLedgerClosed) {
		t.Fatalf("want ErrLedgerClosed, got %v", err)
	}
}

func TestLMAXCloseWithFullQueueBeforeStart(t *testing.T) {
	l := NewLMAXLedger(1)

	const pending = 3
	errs := make(chan error, pending)
	for i := 0; i < pending; i++ {
		go func() {
			_, err := l.Deposit(context.Background(), "acc1234567", d("1"), "queued")
			errs <- err
		}()
	}
	// 等輸送帶塞滿，其餘送出者卡在 submit
	deadline := time.Now().Add(2 * time.Second)
	for len(l.requests) < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	closed := make(chan struct{})
	go func() {
		l.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on a full queue that was never started")
	}

	admitted := 0
	for i := 0; i < pending; i++ {
		select {
		case err := <-errs:
			switch {
			case err == nil:
				admitted++
			case !errors.Is(err, domain.ErrLedgerClosed):
				t.Fatalf("unexpected err %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("deposit still blocked after Close")
		}
	}
	if admitted != 1 {
		t.Fatalf("admitted=%d want=1 (the queued request is drained)", admitted)
	}
	if n := l.state.log.Len(); n != admitted {
		t.Fatalf("log=%d want=%d", n, admitted)
	}
}
