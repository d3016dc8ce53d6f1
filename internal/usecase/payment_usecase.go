package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/domain/model"
	"restaurant-api/internal/infra/gateway"
	repo "restaurant-api/internal/repository"

	"go.uber.org/zap"
)

// 決済ゲートウェイ（決済リンク作成）
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, req gateway.PaymentLinkRequest) (gateway.PaymentLink, error)
}

// webhook署名の検証
type WebhookVerifier interface {
	Enabled() bool
	Verify(body []byte, signature string) error
}

type PaymentUsecase struct {
	orders   repo.OrderRepository
	payments repo.PaymentRepository
	gateway  PaymentGateway
	verifier WebhookVerifier
	audit    *AuditUsecase
	currency string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewPaymentUsecase(
	orders repo.OrderRepository,
	payments repo.PaymentRepository,
	gw PaymentGateway,
	verifier WebhookVerifier,
	audit *AuditUsecase,
	currency string,
	timeout time.Duration,
	logger *zap.Logger,
) *PaymentUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "COP"
	}
	return &PaymentUsecase{
		orders:   orders,
		payments: payments,
		gateway:  gw,
		verifier: verifier,
		audit:    audit,
		currency: currency,
		timeout:  timeout,
		logger:   logger,
	}
}

type InitiatePaymentOutput struct {
	OrderID          int64  `json:"order_id"`
	GatewayReference string `json:"gateway_reference"`
	CheckoutURL      string `json:"checkout_url"`
	Simulated        bool   `json:"simulated,omitempty"`
}

// 支払い開始。pending かつ unpaid の注文だけ
func (u *PaymentUsecase) InitiatePayment(ctx context.Context, actor Actor, orderID int64) (InitiatePaymentOutput, error) {
	if orderID <= 0 {
		return InitiatePaymentOutput{}, NewValidationError("order_id is required")
	}
	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return InitiatePaymentOutput{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return InitiatePaymentOutput{}, storeError(err)
	}
	if !canView(actor, o) {
		return InitiatePaymentOutput{}, NewForbiddenError("forbidden")
	}
	if o.Status != model.OrderStatusPending || o.PaymentStatus != model.PaymentStatusUnpaid {
		return InitiatePaymentOutput{}, NewInvalidStateError(
			fmt.Sprintf("order is not payable (status=%s, payment_status=%s)", o.Status, o.PaymentStatus),
		)
	}

	link, err := u.gateway.CreatePaymentLink(ctx, gateway.PaymentLinkRequest{
		OrderID:  o.ID,
		Amount:   o.Total,
		Currency: u.currency,
	})
	if err != nil {
		u.logger.Error("payment link failed", zap.Int64("order_id", o.ID), zap.Error(err))
		return InitiatePaymentOutput{}, NewUpstreamError(err)
	}

	// リンクは発行済みなので記録の失敗では落とさない
	ref := link.Reference
	if _, err := u.payments.Create(ctx, model.Payment{
		OrderID:          o.ID,
		GatewayReference: &ref,
		PaymentLinkID:    &ref,
		Status:           model.PaymentRecordCreated,
		Amount:           o.Total,
		Currency:         u.currency,
		RawPayload:       string(link.Raw),
	}); err != nil {
		u.logger.Warn("payment record not persisted",
			zap.Int64("order_id", o.ID),
			zap.String("reference", ref),
			zap.Error(err),
		)
	}

	return InitiatePaymentOutput{
		OrderID:          o.ID,
		GatewayReference: ref,
		CheckoutURL:      link.CheckoutURL,
		Simulated:        link.Simulated,
	}, nil
}

type WebhookResult struct {
	OK      bool   `json:"ok"`
	Updated *bool  `json:"updated,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonNoOrderID        = "no_order_id"
	ReasonAlreadyProcessed = "already_processed"
	ReasonOrderNotFound    = "order_not_found"
)

// ゲートウェイの状態 -> 注文の支払い状態
type paymentOutcome int

const (
	outcomeNone paymentOutcome = iota
	outcomePaid
	outcomeUnpaid
)

func mapGatewayStatus(status string) paymentOutcome {
	switch status {
	case model.PaymentRecordApproved, model.PaymentRecordFinalized, model.PaymentRecordCompleted:
		return outcomePaid
	case model.PaymentRecordDeclined, model.PaymentRecordFailed:
		return outcomeUnpaid
	default:
		return outcomeNone
	}
}

// HandleWebhook は署名とペイロードの不正だけをエラーにする。
// それ以降の失敗はログに残して200で返す（再送しても直らないため）。
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, raw []byte, signature string) (WebhookResult, error) {
	if u.verifier != nil && u.verifier.Enabled() {
		if err := u.verifier.Verify(raw, signature); err != nil {
			u.logger.Warn("webhook signature rejected", zap.Error(err))
			return WebhookResult{}, NewInvalidSignatureError()
		}
	}

	tx, err := parseWebhookPayload(raw)
	if err != nil {
		return WebhookResult{}, NewInvalidPayloadError(err)
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	orderID, ok := u.resolveOrderID(ctx, tx)
	if !ok {
		u.logger.Warn("webhook without resolvable order id",
			zap.String("transaction", tx.Ref),
			zap.String("reference", tx.Reference),
			zap.String("payment_link_id", tx.PaymentLinkID),
		)
		return WebhookResult{OK: true, Reason: ReasonNoOrderID}, nil
	}

	logger := u.logger.With(
		zap.Int64("order_id", orderID),
		zap.String("transaction", tx.Ref),
		zap.String("status", tx.Status),
	)

	if _, err := u.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("webhook for unknown order")
			return WebhookResult{OK: true, Reason: ReasonOrderNotFound}, nil
		}
		// 確認できなくても先へ進む
		logger.Error("order lookup failed", zap.Error(err))
	}

	if done := u.reconcilePaymentRecord(ctx, logger, orderID, tx, string(raw)); done {
		logger.Info("webhook already processed")
		return WebhookResult{OK: true, Reason: ReasonAlreadyProcessed}, nil
	}

	updated := false
	switch mapGatewayStatus(tx.Status) {
	case outcomePaid:
		changed, err := u.orders.MarkPaidIfUnpaid(ctx, orderID)
		if err != nil {
			logger.Error("order payment update failed", zap.Error(err))
			break
		}
		if changed {
			updated = true
			u.audit.Append(ctx, AuditEvent{
				OrderID:     orderID,
				Action:      model.AuditActionPaymentReconciled,
				Description: fmt.Sprintf("payment %s via gateway (transaction %s)", tx.Status, tx.Ref),
			})
			logger.Info("order marked paid")
		}
	case outcomeUnpaid:
		// paidは下げない（遅れて届いた失敗通知で上書きしない）
		logger.Info("payment not completed")
	default:
		logger.Info("payment still in flight or unknown status")
	}

	return WebhookResult{OK: true, Updated: &updated}, nil
}

// 注文IDの解決順: metadata -> referenceの数字 -> 既存の決済レコード
func (u *PaymentUsecase) resolveOrderID(ctx context.Context, tx webhookTransaction) (int64, bool) {
	if id, ok := tx.metadataOrderID(); ok {
		return id, true
	}
	if id, ok := tx.referenceOrderID(); ok {
		return id, true
	}
	lookups := []struct {
		ref  string
		find func(context.Context, string) (model.Payment, error)
	}{
		{tx.Ref, u.payments.FindByGatewayReference},
		{tx.PaymentLinkID, u.payments.FindByPaymentLinkID},
	}
	for _, l := range lookups {
		if l.ref == "" {
			continue
		}
		p, err := l.find(ctx, l.ref)
		if err == nil {
			return p.OrderID, true
		}
		if !errors.Is(err, repo.ErrNotFound) {
			u.logger.Error("payment lookup failed", zap.String("reference", l.ref), zap.Error(err))
		}
	}
	return 0, false
}

// reconcilePaymentRecord は決済レコードを作成/更新する。
// 同じ取引が既に成功で確定していればtrue（何もしない）。
func (u *PaymentUsecase) reconcilePaymentRecord(ctx context.Context, logger *zap.Logger, orderID int64, tx webhookTransaction, raw string) bool {
	status := tx.Status
	if status == "" {
		status = "unknown"
	}
	upd := repo.PaymentUpdate{Status: status, RawPayload: &raw, Amount: tx.Amount}
	if tx.Currency != "" {
		upd.Currency = &tx.Currency
	}

	if tx.Ref != "" {
		existing, err := u.payments.FindByGatewayReference(ctx, tx.Ref)
		switch {
		case err == nil:
			if model.IsFinalSuccess(existing.Status) {
				return true
			}
			u.updatePayment(ctx, logger, existing.ID, upd)
			return false
		case !errors.Is(err, repo.ErrNotFound):
			logger.Error("payment lookup failed", zap.Error(err))
			return false
		}
	}

	// 参照で見つからない: 支払い開始時のレコードがあればそれに紐づける
	if latest, err := u.payments.FindLatestByOrderID(ctx, orderID); err == nil && u.claimable(latest, tx) {
		if tx.Ref != "" {
			upd.GatewayReference = &tx.Ref
		}
		if latest.PaymentLinkID == nil && tx.PaymentLinkID != "" {
			upd.PaymentLinkID = &tx.PaymentLinkID
		}
		u.updatePayment(ctx, logger, latest.ID, upd)
		return false
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		logger.Error("latest payment lookup failed", zap.Error(err))
	}

	rec := model.Payment{
		OrderID:    orderID,
		Status:     status,
		Currency:   tx.Currency,
		RawPayload: raw,
	}
	if tx.Ref != "" {
		rec.GatewayReference = &tx.Ref
	}
	if tx.PaymentLinkID != "" {
		rec.PaymentLinkID = &tx.PaymentLinkID
	}
	if tx.Amount != nil {
		rec.Amount = *tx.Amount
	}
	_, err := u.payments.Create(ctx, rec)
	if err == nil {
		if tx.Ref == "" {
			// 取引IDが無くても生データは残す（次の配信はこの行を更新する）
			logger.Warn("payment recorded without transaction id")
		}
		return false
	}
	if tx.Ref == "" || !errors.Is(err, repo.ErrDuplicate) {
		logger.Error("payment insert failed", zap.Error(err))
		return false
	}

	// 同時に届いた別配信が先に作った
	existing, err := u.payments.FindByGatewayReference(ctx, tx.Ref)
	if err != nil {
		logger.Error("payment re-read failed", zap.Error(err))
		return false
	}
	u.updatePayment(ctx, logger, existing.ID, upd)
	return false
}

// 開始時に作ったレコード（まだ取引に紐づいていない）なら引き継げる
func (u *PaymentUsecase) claimable(p model.Payment, tx webhookTransaction) bool {
	if tx.Ref == "" {
		return true
	}
	if p.GatewayReference == nil {
		return true
	}
	if tx.PaymentLinkID != "" {
		if *p.GatewayReference == tx.PaymentLinkID || (p.PaymentLinkID != nil && *p.PaymentLinkID == tx.PaymentLinkID) {
			return true
		}
	}
	return p.Status == model.PaymentRecordCreated
}

func (u *PaymentUsecase) updatePayment(ctx context.Context, logger *zap.Logger, paymentID int64, upd repo.PaymentUpdate) {
	ok, err := u.payments.UpdateIfNotSuperseded(ctx, paymentID, upd)
	if err != nil {
		logger.Error("payment update failed", zap.Int64("payment_id", paymentID), zap.Error(err))
		return
	}
	if !ok {
		logger.Info("payment update skipped (status already ahead)", zap.Int64("payment_id", paymentID))
	}
}
