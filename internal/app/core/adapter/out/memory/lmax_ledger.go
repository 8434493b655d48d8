package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// ledgerRequest 包裝一個要在核心迴圈執行的指令，呼叫端等待 done
type ledgerRequest struct {
	apply func(s *ledgerState)
	done  chan struct{}
}

// LMAXLedger 單一寫入者帳本：所有操作 (包含查詢) 都經由輸送帶交給同一個 goroutine 依序執行，
// 所以 state 完全不需要鎖。
type LMAXLedger struct {
	state *ledgerState
	// 輸送帶 負責接收指令
	requests chan *ledgerRequest
	// Pool 減少 GC 壓力
	requestPool sync.Pool

	// closeMu 保護 closed；送出指令時持有讀鎖，確保關閉後不會再有人寫入 requests。
	// closing 先於寫鎖關閉，讓卡在滿載輸送帶上的送出者放掉讀鎖。
	closeMu   sync.RWMutex
	closed    bool
	closing   chan struct{}
	closeOnce sync.Once
	startOnce sync.Once
	stopped   chan struct{}
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例，需呼叫 Start 後才會開始處理
//
// 參數:
//
//	bufferSize: 輸送帶容量
//
// 回傳:
//
//	*LMAXLedger: LMAXLedger 實例
func NewLMAXLedger(bufferSize int) *LMAXLedger {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &LMAXLedger{
		state:    newLedgerState(),
		requests: make(chan *ledgerRequest, bufferSize),
		requestPool: sync.Pool{
			New: func() interface{} {
				return &ledgerRequest{
					done: make(chan struct{}, 1),
				}
			},
		},
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start 啟動核心引擎 (非同步)。ctx 結束時等同呼叫 Close。
func (l *LMAXLedger) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		go l.run()
	})
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-l.stopped:
		}
	}()
}

// Close 停止接收新指令，處理完輸送帶上剩下的指令後返回。可重複呼叫。
func (l *LMAXLedger) Close() {
	l.closeOnce.Do(func() {
		close(l.closing)
		l.closeMu.Lock()
		l.closed = true
		close(l.requests)
		l.closeMu.Unlock()
		// 未曾 Start 也要有人把輸送帶排空
		l.startOnce.Do(func() {
			go l.run()
		})
	})
	<-l.stopped
}

func (l *LMAXLedger) run() {
	defer close(l.stopped)
	// requests 關閉後 range 會先把剩下的指令處理完
	for req := range l.requests {
		req.apply(l.state)
		req.done <- struct{}{}
	}
}

// submit 把指令放上輸送帶並等待核心迴圈執行完畢
//
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> State Update -> done -> 呼叫端收到結果
func (l *LMAXLedger) submit(apply func(s *ledgerState)) error {
	req := l.requestPool.Get().(*ledgerRequest)
	req.apply = apply

	l.closeMu.RLock()
	if l.closed {
		l.closeMu.RUnlock()
		l.release(req)
		return domain.ErrLedgerClosed
	}
	select {
	case l.requests <- req:
		l.closeMu.RUnlock()
	case <-l.closing:
		l.closeMu.RUnlock()
		l.release(req)
		return domain.ErrLedgerClosed
	}

	<-req.done
	l.release(req)
	return nil
}

func (l *LMAXLedger) release(req *ledgerRequest) {
	req.apply = nil
	l.requestPool.Put(req)
}

func (l *LMAXLedger) admit(accountID string, amount decimal.Decimal, kind domain.TransactionKind, description string) (domain.Transaction, error) {
	var (
		tran     domain.Transaction
		admitErr error
	)
	if err := l.submit(func(s *ledgerState) {
		tran, admitErr = s.admit(accountID, amount, kind, description)
	}); err != nil {
		return domain.Transaction{}, err
	}
	return tran, admitErr
}

// Deposit 存款
func (l *LMAXLedger) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	return l.admit(accountID, amount, domain.TransactionKindDeposit, description)
}

// Withdraw 提款
func (l *LMAXLedger) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	return l.admit(accountID, amount, domain.TransactionKindWithdrawal, description)
}

// GetBalance 取得帳戶餘額
func (l *LMAXLedger) GetBalance(ctx context.Context, accountID string) (domain.AccountBalance, error) {
	var balance domain.AccountBalance
	err := l.submit(func(s *ledgerState) {
		balance = s.balance(accountID)
	})
	return balance, err
}

// GetHistory 取得帳戶的交易紀錄
func (l *LMAXLedger) GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	var history []domain.Transaction
	if err := l.submit(func(s *ledgerState) {
		history = s.log.FilterByAccount(accountID)
	}); err != nil {
		return nil, err
	}
	return history, nil
}

// GetAllTransactions 取得所有交易紀錄
func (l *LMAXLedger) GetAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var all []domain.Transaction
	if err := l.submit(func(s *ledgerState) {
		all = s.log.All()
	}); err != nil {
		return nil, err
	}
	return all, nil
}

// GetTransaction 依交易 ID 查詢
func (l *LMAXLedger) GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	var (
		tran  domain.Transaction
		found bool
	)
	if err := l.submit(func(s *ledgerState) {
		tran, found = s.log.Find(id)
	}); err != nil {
		return domain.Transaction{}, err
	}
	if !found {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return tran, nil
}

var _ usecase.Ledger = (*LMAXLedger)(nil)
