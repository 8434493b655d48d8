package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// DefaultSubject 預設發佈的主題
const DefaultSubject = "ledger.transactions"

// event 對外發佈的交易事件
type event struct {
	Event       string `json:"event"`
	ID          string `json:"id"`
	Sequence    uint64 `json:"sequence"`
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

func encodeEvent(tran domain.Transaction) ([]byte, error) {
	return json.Marshal(event{
		Event:       "transaction.admitted",
		ID:          tran.ID.String(),
		Sequence:    tran.Sequence,
		AccountID:   tran.AccountID,
		Amount:      tran.Amount.String(),
		Type:        tran.Kind.String(),
		Timestamp:   tran.Timestamp.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		Description: tran.Description,
	})
}

// conn 是 Publisher 用到的 *nats.Conn 方法
type conn interface {
	PublishMsg(m *nats.Msg) error
	Flush() error
	Drain() error
}

// drainTimeout 關閉時等待 Drain 完成的上限
const drainTimeout = 10 * time.Second

// Publisher 把成交的交易以事件發佈到 NATS
type Publisher struct {
	nc      conn
	subject string
	// closed 連線真正關閉時 (ClosedHandler) 被關閉；nil 表示不等待
	closed <-chan struct{}
}

// Connect 連線到 NATS 並建立 Publisher
//
// 參數:
//
//	url: NATS 伺服器地址 (e.g., nats://127.0.0.1:4222)
//	subject: 發佈主題，空字串使用 DefaultSubject
func Connect(url, subject string) (*Publisher, error) {
	closed := make(chan struct{})
	var once sync.Once
	nc, err := nats.Connect(url,
		nats.Name("go-account-ledger"),
		nats.MaxReconnects(-1),
		nats.DrainTimeout(drainTimeout),
		nats.ClosedHandler(func(*nats.Conn) {
			once.Do(func() { close(closed) })
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	p := NewPublisher(nc, subject)
	p.closed = closed
	return p, nil
}

func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	return newPublisher(nc, subject)
}

func newPublisher(nc conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

func (p *Publisher) Name() string {
	return "nats"
}

// Record 發佈一筆交易事件
func (p *Publisher) Record(ctx context.Context, tran domain.Transaction) error {
	data, err := encodeEvent(tran)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Nats-Msg-Id", tran.ID.String())
	return p.nc.PublishMsg(msg)
}

// Close 等伺服器收到所有已發佈的事件，再 Drain 並等待連線關閉
func (p *Publisher) Close() error {
	flushErr := p.nc.Flush()
	if err := p.nc.Drain(); err != nil {
		return fmt.Errorf("drain nats: %w", err)
	}
	if p.closed != nil {
		select {
		case <-p.closed:
		case <-time.After(drainTimeout):
			return fmt.Errorf("drain nats: timed out after %v", drainTimeout)
		}
	}
	if flushErr != nil {
		return fmt.Errorf("flush nats: %w", flushErr)
	}
	return nil
}

var _ usecase.AuditSink = (*Publisher)(nil)
