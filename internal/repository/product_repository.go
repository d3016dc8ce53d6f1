package repository

import (
	"context"

	"restaurant-api/internal/domain/model"
)

// メニュー一覧の条件
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
}

// カタログ（注文の価格計算・メニュー表示・管理）
type ProductRepository interface {
	// まとめて取得。存在しないIDは結果に含まれない
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// 販売中の商品だけ（名前順）
	ListAvailable(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	// 管理用。販売停止中も含む
	ListAll(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// 全項目を上書き（availableのfalseも書く）
	Update(ctx context.Context, p model.Product) error
	SetAvailable(ctx context.Context, id int64, available bool) error
	SoftDelete(ctx context.Context, id int64) error
}
