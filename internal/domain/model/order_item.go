package model

import "time"

// 注文明細。価格は作成時点のカタログ価格をサーバー側で確定する。
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	ProductID    int64     `gorm:"not null;index" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice    float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	LineSubtotal float64   `gorm:"type:decimal(12,2);not null" json:"line_subtotal"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
