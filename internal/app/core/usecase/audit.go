package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// AuditSink 接收已成交交易的外部輸出 (檔案、資料庫、訊息佇列)。
// 只寫不讀，帳本永遠不會從 sink 還原狀態。
type AuditSink interface {
	Name() string
	Record(ctx context.Context, tran domain.Transaction) error
}

// AuditDispatcher 以單一 worker 依序把交易送到所有 sink。
// sink 錯誤只記錄 log，不會回傳給帳本的呼叫端。
type AuditDispatcher struct {
	sinks []AuditSink
	queue chan domain.Transaction

	// closing 先於寫鎖關閉，讓卡在滿載佇列上的 Publish 放掉讀鎖
	closeMu   sync.RWMutex
	closed    bool
	closing   chan struct{}
	closeOnce sync.Once
	startOnce sync.Once
	stopped   chan struct{}
}

// NewAuditDispatcher 建立 AuditDispatcher，queueSize 為緩衝大小
func NewAuditDispatcher(queueSize int, sinks ...AuditSink) *AuditDispatcher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &AuditDispatcher{
		sinks:   sinks,
		queue:   make(chan domain.Transaction, queueSize),
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start 啟動 worker；ctx 只用於傳給 sink，關閉請呼叫 Close
func (d *AuditDispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		go d.run(ctx)
	})
}

// Publish 把交易放進佇列，佇列滿時阻塞；關閉後直接丟棄
func (d *AuditDispatcher) Publish(tran domain.Transaction) {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()
	if d.closed {
		log.Printf("audit dispatcher closed, dropping transaction %s", tran.ID)
		return
	}
	select {
	case d.queue <- tran:
	case <-d.closing:
		log.Printf("audit dispatcher closed, dropping transaction %s", tran.ID)
	}
}

// Close 停止接收，送完佇列內剩餘的交易後返回
func (d *AuditDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.closing)
		d.closeMu.Lock()
		d.closed = true
		close(d.queue)
		d.closeMu.Unlock()
		d.startOnce.Do(func() {
			go d.run(context.Background())
		})
	})
	<-d.stopped
}

func (d *AuditDispatcher) run(ctx context.Context) {
	defer close(d.stopped)
	for tran := range d.queue {
		for _, sink := range d.sinks {
			if err := sink.Record(ctx, tran); err != nil {
				log.Printf("audit sink %s failed for transaction %s: %v", sink.Name(), tran.ID, err)
			}
		}
	}
}

var _ Publisher = (*AuditDispatcher)(nil)
