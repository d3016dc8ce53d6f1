package repository

import (
	"context"
	"errors"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) FindByGatewayReference(ctx context.Context, ref string) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("gateway_reference = ?", ref).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) FindLatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").Order("id desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByPaymentLinkID(ctx context.Context, linkID string) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Where("payment_link_id = ? OR gateway_reference = ?", linkID, linkID).
		Order("created_at desc").Order("id desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	err := r.db.WithContext(ctx).Create(&p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.Payment{}, repo.ErrDuplicate
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

// 上位statusを持つ行には当たらない条件付きUPDATE
func (r *PaymentGormRepository) UpdateIfNotSuperseded(ctx context.Context, paymentID int64, u repo.PaymentUpdate) (bool, error) {
	fields := map[string]interface{}{
		"status": u.Status,
	}
	if u.GatewayReference != nil {
		fields["gateway_reference"] = *u.GatewayReference
	}
	if u.PaymentLinkID != nil {
		fields["payment_link_id"] = *u.PaymentLinkID
	}
	if u.Amount != nil {
		fields["amount"] = *u.Amount
	}
	if u.Currency != nil {
		fields["currency"] = *u.Currency
	}
	if u.RawPayload != nil {
		fields["raw_payload"] = *u.RawPayload
	}

	q := r.db.WithContext(ctx).Model(&model.Payment{}).Where("id = ?", paymentID)
	if above := model.PaymentRecordStatusesAbove(u.Status); len(above) > 0 {
		q = q.Where("status NOT IN ?", above)
	}

	res := q.Updates(fields)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return false, repo.ErrDuplicate
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
