package model

import "time"

type TableStatus string

const (
	TableStatusAvailable   TableStatus = "available"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusReserved    TableStatus = "reserved"
	TableStatusMaintenance TableStatus = "maintenance"
)

// 店内のテーブル（QRで注文に紐づく）
type Table struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    int         `gorm:"not null;uniqueIndex" json:"number"`
	Status    TableStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Location  string      `gorm:"type:varchar(100);not null;default:''" json:"location"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Table) TableName() string {
	return "dining_tables"
}
