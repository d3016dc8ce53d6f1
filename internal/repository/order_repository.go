package repository

import (
	"context"
	"time"

	"restaurant-api/internal/domain/model"
)

// スタッフ向け注文一覧の条件
type OrderListFilter struct {
	Page     int
	Limit    int
	Status   *model.OrderStatus
	TableID  *int64
	ClientID *int64
	From     *time.Time
	To       *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByClientID(ctx context.Context, clientID int64) ([]model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)

	// statusがfromのときだけtoにする。更新できたらtrue
	UpdateStatusIfCurrent(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error)

	UpdateTable(ctx context.Context, orderID int64, tableID int64) error
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error

	// unpaidのときだけpaidにする（webhook用）。更新できたらtrue
	MarkPaidIfUnpaid(ctx context.Context, orderID int64) (bool, error)

	Delete(ctx context.Context, orderID int64) error
}
