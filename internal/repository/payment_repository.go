package repository

import (
	"context"

	"restaurant-api/internal/domain/model"
)

// 決済レコードの部分更新。nilの項目は変更しない
type PaymentUpdate struct {
	GatewayReference *string
	PaymentLinkID    *string
	Status           string
	Amount           *float64
	Currency         *string
	RawPayload       *string
}

type PaymentRepository interface {
	FindByGatewayReference(ctx context.Context, ref string) (model.Payment, error)
	FindLatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	// payment_link_id（無ければ開始時のgateway_reference）で一番新しい行
	FindByPaymentLinkID(ctx context.Context, linkID string) (model.Payment, error)

	// gateway_referenceが重複したら ErrDuplicate
	Create(ctx context.Context, p model.Payment) (model.Payment, error)

	// 現在のstatusが新しいstatusより上位なら更新しない（false）
	UpdateIfNotSuperseded(ctx context.Context, paymentID int64, u PaymentUpdate) (bool, error)
}
