package journal

import (
	"context"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/journal"
)

// Sink 把成交的交易寫到 JSON Lines 稽核檔。只寫不讀，重啟時不會拿來還原帳本。
type Sink struct {
	journal *journal.Journal
}

func NewSink(j *journal.Journal) *Sink {
	return &Sink{journal: j}
}

func (s *Sink) Name() string {
	return "journal"
}

// Record 寫入一筆交易
func (s *Sink) Record(ctx context.Context, tran domain.Transaction) error {
	return s.journal.Append(tran)
}

var _ usecase.AuditSink = (*Sink)(nil)
