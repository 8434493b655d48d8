package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/mysql"
)

// sqlTransaction 對應資料庫的 ledger_transactions 表
type sqlTransaction struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	RefID       []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.Transaction.ID
	Sequence    uint64 `gorm:"index"`
	AccountID   string `gorm:"column:account_id;type:varchar(64);index"`
	Amount      string `gorm:"type:decimal(38,18)"`
	Type        string `gorm:"type:varchar(16)"`
	Description string `gorm:"type:varchar(255)"`
	OccurredAt  int64  // 交易時間 (unix milli)
	CreatedAt   int64  `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlTransaction) TableName() string {
	return "ledger_transactions"
}

func toSQLTransaction(tran domain.Transaction) sqlTransaction {
	return sqlTransaction{
		RefID:       tran.ID[:],
		Sequence:    tran.Sequence,
		AccountID:   tran.AccountID,
		Amount:      tran.Amount.String(),
		Type:        tran.Kind.String(),
		Description: tran.Description,
		OccurredAt:  tran.Timestamp.UnixMilli(),
	}
}

// AuditSink 把成交的交易鏡像寫入 MySQL，供報表與對帳使用。
// 帳本啟動時不讀取此表，記憶體仍是唯一的狀態來源。
type AuditSink struct {
	client *mysql.Client
}

// NewAuditSink 建立 AuditSink 並確保資料表存在
func NewAuditSink(client *mysql.Client) (*AuditSink, error) {
	if err := client.DB().AutoMigrate(&sqlTransaction{}); err != nil {
		return nil, fmt.Errorf("migrate ledger_transactions: %w", err)
	}
	return &AuditSink{client: client}, nil
}

func (s *AuditSink) Name() string {
	return "mysql"
}

// Record 寫入一筆交易；相同 ref_id 已存在時視為成功
func (s *AuditSink) Record(ctx context.Context, tran domain.Transaction) error {
	row := toSQLTransaction(tran)
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

var _ usecase.AuditSink = (*AuditSink)(nil)
