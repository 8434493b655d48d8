package nats

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

func TestEncodeEvent(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tran := domain.NewTransaction(4, "acc1234567", decimal.RequireFromString("300"), domain.TransactionKindDeposit, "salary", ts)

	data, err := encodeEvent(tran)
	if err != nil {
		t.Fatal(err)
	}
	var got event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := event{
		Event:       "transaction.admitted",
		ID:          tran.ID.String(),
		Sequence:    4,
		AccountID:   "acc1234567",
		Amount:      "300",
		Type:        "DEPOSIT",
		Timestamp:   "2024-05-01T12:00:00.000000000Z",
		Description: "salary",
	}
	if got != want {
		t.Fatalf("got=%+v want=%+v", got, want)
	}
}

func TestNewPublisherDefaultSubject(t *testing.T) {
	if p := NewPublisher(nil, ""); p.subject != DefaultSubject {
		t.Fatalf("subject=%s want=%s", p.subject, DefaultSubject)
	}
	if p := NewPublisher(nil, "custom"); p.subject != "custom" {
		t.Fatalf("subject=%s want=custom", p.subject)
	}
}

// fakeConn 記錄呼叫順序，Drain 完成時模擬 ClosedHandler
type fakeConn struct {
	calls    []string
	subjects []string
	closed   chan struct{}
}

func (c *fakeConn) PublishMsg(m *nats.Msg) error {
	c.calls = append(c.calls, "publish")
	c.subjects = append(c.subjects, m.Subject+" "+m.Header.Get("Nats-Msg-Id"))
	return nil
}

func (c *fakeConn) Flush() error {
	c.calls = append(c.calls, "flush")
	return nil
}

func (c *fakeConn) Drain() error {
	c.calls = append(c.calls, "drain")
	go close(c.closed)
	return nil
}

func TestPublisherFlushesBeforeDrainAndWaitsForClose(t *testing.T) {
	fc := &fakeConn{closed: make(chan struct{})}
	p := newPublisher(fc, "")
	p.closed = fc.closed

	tran := domain.NewTransaction(1, "acc1234567", decimal.RequireFromString("10"), domain.TransactionKindDeposit, "d", time.Now())
	if err := p.Record(context.Background(), tran); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	want := []string{"publish", "flush", "drain"}
	if strings.Join(fc.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls=%v want=%v", fc.calls, want)
	}
	if fc.subjects[0] != DefaultSubject+" "+tran.ID.String() {
		t.Fatalf("published=%q", fc.subjects[0])
	}
	select {
	case <-fc.closed:
	default:
		t.Fatal("Close returned before the connection closed")
	}
}
