package model

import "time"

// 何の操作か
type AuditAction string

const (
	AuditActionOrderCreated       AuditAction = "ORDER_CREATED"
	AuditActionOrderStatusChanged AuditAction = "ORDER_STATUS_CHANGED"
	AuditActionOrderTableChanged  AuditAction = "ORDER_TABLE_CHANGED"
	AuditActionOrderPaymentChange AuditAction = "ORDER_PAYMENT_CHANGED"
	AuditActionPaymentReconciled  AuditAction = "PAYMENT_RECONCILED"
)

// 注文の監査ログ（追記のみ）。
// ステータス遷移以外の操作では from/to は nil。
type AuditLog struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64       `gorm:"not null;index" json:"order_id"`
	ActorUserID *int64      `gorm:"index" json:"actor_user_id"`
	Action      AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`
	FromStatus  *string     `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus    *string     `gorm:"type:varchar(20)" json:"to_status"`
	Description string      `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
}
