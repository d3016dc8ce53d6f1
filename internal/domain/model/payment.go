package model

import (
	"sort"
	"time"
)

// 決済の試行ごとに1行。gateway_reference（取引ID/リンクID）で一意。
// payment_link_id は取引IDに付け替えた後もリンクから辿るために残す。
type Payment struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64     `gorm:"not null;index" json:"order_id"`
	GatewayReference *string   `gorm:"type:varchar(255);uniqueIndex" json:"gateway_reference"`
	PaymentLinkID    *string   `gorm:"type:varchar(255);index" json:"payment_link_id"`
	Status           string    `gorm:"type:varchar(40);not null;index" json:"status"`
	Amount           float64   `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Currency         string    `gorm:"type:varchar(8);not null;default:''" json:"currency"`
	RawPayload       string    `gorm:"type:text" json:"-"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 決済レコードのstatus（ゲートウェイの語彙を小文字で保持）
const (
	PaymentRecordCreated   = "created"
	PaymentRecordPending   = "pending"
	PaymentRecordApproved  = "approved"
	PaymentRecordDeclined  = "declined"
	PaymentRecordFinalized = "finalized"
	PaymentRecordCompleted = "completed"
	PaymentRecordPaid      = "paid"
	PaymentRecordFailed    = "failed"
	PaymentRecordVoided    = "voided"
	PaymentRecordError     = "error"
)

// 上位のstatusは下位で上書きしない
var paymentRecordRanks = map[string]int{
	PaymentRecordCreated:   0,
	PaymentRecordPending:   1,
	PaymentRecordDeclined:  2,
	PaymentRecordFailed:    2,
	PaymentRecordVoided:    2,
	PaymentRecordError:     2,
	PaymentRecordApproved:  3,
	PaymentRecordFinalized: 3,
	PaymentRecordPaid:      3,
	PaymentRecordCompleted: 3,
}

// PaymentRecordRank は未知のstatusを0として扱う
func PaymentRecordRank(status string) int {
	return paymentRecordRanks[status]
}

// PaymentRecordStatusesAbove はstatusより上位の既知statusを返す
func PaymentRecordStatusesAbove(status string) []string {
	rank := PaymentRecordRank(status)
	out := make([]string, 0, len(paymentRecordRanks))
	for s, r := range paymentRecordRanks {
		if r > rank {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// IsFinalSuccess は支払い完了済みのstatusか
func IsFinalSuccess(status string) bool {
	return PaymentRecordRank(status) == 3
}
