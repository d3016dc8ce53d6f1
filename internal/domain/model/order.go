package model

import "time"

// 注文の調理・提供ステータス
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 支払いフラグ（ステータスとは独立）
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// IsTerminal は終端ステータスかどうか
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// client_id か table_id のどちらかは必須
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID      *int64        `gorm:"index" json:"client_id"`
	TableID       *int64        `gorm:"index" json:"table_id"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid';index" json:"payment_status"`
	Total         float64       `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
