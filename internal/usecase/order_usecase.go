package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"go.uber.org/zap"
)

// 操作したユーザー（JWTから）
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsStaff() bool {
	return a.Role == model.RoleStaff || a.Role == model.RoleAdmin
}

func (a Actor) idPtr() *int64 {
	if a.UserID <= 0 {
		return nil
	}
	id := a.UserID
	return &id
}

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	items  repo.OrderItemRepository
	tables repo.TableRepository
	audit  *AuditUsecase

	// ストア呼び出し1操作あたりの上限
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	tables repo.TableRepository,
	audit *AuditUsecase,
	timeout time.Duration,
	logger *zap.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderUsecase{
		tx:      tx,
		orders:  orders,
		items:   items,
		tables:  tables,
		audit:   audit,
		timeout: timeout,
		logger:  logger,
	}
}

type CreateOrderInput struct {
	ClientID *int64          `json:"client_id"`
	TableID  *int64          `json:"table_id"`
	Items    []LineItemInput `json:"items"`

	// 整合チェック用（保存されるのはサーバー計算値）
	Total *float64 `json:"total"`
}

type OrderItemOutput struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int64   `json:"quantity"`
	LineSubtotal float64 `json:"line_subtotal"`
	Notes        string  `json:"notes,omitempty"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	ClientID      *int64            `json:"client_id"`
	TableID       *int64            `json:"table_id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Total         float64           `json:"total"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Items         []OrderItemOutput `json:"items"`
}

type OrderDetailOutput struct {
	Order   OrderOutput    `json:"order"`
	History []HistoryEntry `json:"history"`
}

type ListOrdersInput struct {
	Page     int
	Limit    int
	Status   string
	TableID  *int64
	ClientID *int64
	From     *time.Time
	To       *time.Time
}

type OrderListOutput struct {
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	Orders     []OrderOutput `json:"orders"`
}

// 注文作成（価格はカタログから確定）
func (u *OrderUsecase) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (OrderOutput, error) {
	if in.ClientID == nil && in.TableID == nil {
		return OrderOutput{}, NewValidationError("client_id or table_id is required")
	}
	if in.ClientID != nil && *in.ClientID <= 0 {
		return OrderOutput{}, NewValidationError("invalid client_id")
	}
	if in.TableID != nil && *in.TableID <= 0 {
		return OrderOutput{}, NewValidationError("invalid table_id")
	}
	// クライアントは自分の注文しか作れない
	if actor.Role == model.RoleClient && in.ClientID != nil && *in.ClientID != actor.UserID {
		return OrderOutput{}, NewForbiddenError("forbidden")
	}
	if err := validateLineItems(in.Items); err != nil {
		return OrderOutput{}, err
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	var (
		created model.Order
		items   []model.OrderItem
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if in.ClientID != nil {
			user, err := r.Users().FindByID(ctx, *in.ClientID)
			if err != nil {
				return storeError(err)
			}
			if user == nil {
				return NewNotFoundError("client not found")
			}
		}
		if in.TableID != nil {
			if _, err := r.Tables().FindByID(ctx, *in.TableID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewNotFoundError("table not found")
				}
				return storeError(err)
			}
		}

		// 商品は1回でまとめて引く
		products, err := r.Products().FindByIDs(ctx, uniqueProductIDs(in.Items))
		if err != nil {
			return storeError(err)
		}
		priced, total, err := priceLineItems(in.Items, products)
		if err != nil {
			return err
		}
		if err := checkClientTotal(in.Total, total); err != nil {
			return err
		}

		o, err := r.Orders().Create(ctx, model.Order{
			ClientID:      in.ClientID,
			TableID:       in.TableID,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusUnpaid,
			Total:         total,
		})
		if err != nil {
			return storeError(err)
		}
		if err := r.OrderItems().CreateBulk(ctx, o.ID, priced); err != nil {
			return storeError(err)
		}

		created = o
		items = priced
		return nil
	})
	if err != nil {
		return OrderOutput{}, storeError(err)
	}

	to := model.OrderStatusPending
	u.audit.Append(ctx, AuditEvent{
		OrderID:     created.ID,
		ActorUserID: actor.idPtr(),
		Action:      model.AuditActionOrderCreated,
		To:          &to,
		Description: "order created",
	})

	u.logger.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.Float64("total", created.Total),
		zap.Int("items", len(items)),
	)
	return toOrderOutput(created, items), nil
}

// 注文詳細と直近の履歴
func (u *OrderUsecase) GetOrder(ctx context.Context, actor Actor, orderID int64) (OrderDetailOutput, error) {
	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	o, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, err
	}
	if !canView(actor, o) {
		return OrderDetailOutput{}, NewForbiddenError("forbidden")
	}

	out, err := u.withItems(ctx, o)
	if err != nil {
		return OrderDetailOutput{}, err
	}
	return OrderDetailOutput{Order: out, History: u.audit.History(ctx, o)}, nil
}

// スタッフ向け一覧
func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	page, limit, err := NormalizePaging(in.Page, in.Limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	f := repo.OrderListFilter{
		Page:     page,
		Limit:    limit,
		TableID:  in.TableID,
		ClientID: in.ClientID,
		From:     in.From,
		To:       in.To,
	}
	if strings.TrimSpace(in.Status) != "" {
		st, ok := CanonicalOrderStatus(in.Status)
		if !ok {
			return OrderListOutput{}, NewValidationError(fmt.Sprintf("invalid status: %s", in.Status))
		}
		f.Status = &st
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, storeError(err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out, err := u.withItems(ctx, o)
		if err != nil {
			return OrderListOutput{}, err
		}
		outs = append(outs, out)
	}

	return OrderListOutput{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		Orders:     outs,
	}, nil
}

// 自分の注文（新しい順）
func (u *OrderUsecase) ListClientOrders(ctx context.Context, clientID int64) ([]OrderOutput, error) {
	if clientID <= 0 {
		return []OrderOutput{}, NewUnauthorizedError("unauthorized")
	}
	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	orders, err := u.orders.ListByClientID(ctx, clientID)
	if err != nil {
		return []OrderOutput{}, storeError(err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out, err := u.withItems(ctx, o)
		if err != nil {
			return []OrderOutput{}, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// ステータス遷移。書き込みは現在値を条件にしたCAS
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, actor Actor, orderID int64, requested string) (OrderOutput, error) {
	if strings.TrimSpace(requested) == "" {
		return OrderOutput{}, NewValidationError("status is required")
	}
	to, ok := CanonicalOrderStatus(requested)
	if !ok {
		return OrderOutput{}, NewValidationError(fmt.Sprintf("invalid status: %s", requested))
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	o, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	// 同じステータスなら何もしない
	if o.Status == to {
		return u.withItems(ctx, o)
	}
	if !CanTransition(o.Status, to) {
		return OrderOutput{}, NewInvalidTransitionError(string(o.Status), requestedLabel(requested, to))
	}

	from := o.Status
	updated, err := u.orders.UpdateStatusIfCurrent(ctx, orderID, from, to)
	if err != nil {
		return OrderOutput{}, storeError(err)
	}
	if !updated {
		// 読んだ後に誰かが書いた
		fresh, err := u.findOrder(ctx, orderID)
		if err != nil {
			return OrderOutput{}, err
		}
		if fresh.Status == to {
			return u.withItems(ctx, fresh)
		}
		return OrderOutput{}, NewInvalidTransitionError(string(fresh.Status), requestedLabel(requested, to))
	}

	u.audit.Append(ctx, AuditEvent{
		OrderID:     orderID,
		ActorUserID: actor.idPtr(),
		Action:      model.AuditActionOrderStatusChanged,
		From:        &from,
		To:          &to,
		Description: fmt.Sprintf("status changed %s -> %s", from, to),
	})

	o.Status = to
	o.UpdatedAt = time.Now()
	return u.withItems(ctx, o)
}

// テーブルの付け替え（ステータスは変えない）
func (u *OrderUsecase) UpdateOrderTable(ctx context.Context, actor Actor, orderID int64, tableID *int64) (OrderOutput, error) {
	if tableID == nil || *tableID <= 0 {
		return OrderOutput{}, NewValidationError("table_id is required")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	o, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}
	if _, err := u.tables.FindByID(ctx, *tableID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewNotFoundError("table not found")
		}
		return OrderOutput{}, storeError(err)
	}

	if err := u.orders.UpdateTable(ctx, orderID, *tableID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewNotFoundError("order not found")
		}
		return OrderOutput{}, storeError(err)
	}

	u.audit.Append(ctx, AuditEvent{
		OrderID:     orderID,
		ActorUserID: actor.idPtr(),
		Action:      model.AuditActionOrderTableChanged,
		Description: fmt.Sprintf("table changed to %d", *tableID),
	})

	o.TableID = tableID
	return u.withItems(ctx, o)
}

// 支払いフラグの手動修正（決済レコードは触らない）
func (u *OrderUsecase) UpdateOrderPayment(ctx context.Context, actor Actor, orderID int64, paymentStatus string) (OrderOutput, error) {
	ps := model.PaymentStatus(strings.ToLower(strings.TrimSpace(paymentStatus)))
	if ps != model.PaymentStatusPaid && ps != model.PaymentStatusUnpaid {
		return OrderOutput{}, NewValidationError(fmt.Sprintf("invalid payment_status: %s", paymentStatus))
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.orders.UpdatePaymentStatus(ctx, orderID, ps); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewNotFoundError("order not found")
		}
		return OrderOutput{}, storeError(err)
	}

	u.audit.Append(ctx, AuditEvent{
		OrderID:     orderID,
		ActorUserID: actor.idPtr(),
		Action:      model.AuditActionOrderPaymentChange,
		Description: fmt.Sprintf("payment status set to %s", ps),
	})

	o, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}
	return u.withItems(ctx, o)
}

// 管理用の物理削除（明細も消す）
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewValidationError("invalid id")
	}
	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return storeError(err)
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("order not found")
			}
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return storeError(err)
	}
	u.logger.Info("order deleted", zap.Int64("order_id", orderID))
	return nil
}

func (u *OrderUsecase) findOrder(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewValidationError("invalid id")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return model.Order{}, storeError(err)
	}
	return o, nil
}

func (u *OrderUsecase) withItems(ctx context.Context, o model.Order) (OrderOutput, error) {
	items, err := u.items.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, storeError(err)
	}
	return toOrderOutput(o, items), nil
}

// クライアントは自分の注文だけ見られる
func canView(actor Actor, o model.Order) bool {
	if actor.IsStaff() {
		return true
	}
	return o.ClientID != nil && *o.ClientID == actor.UserID
}

// 入力が別名だったときは元の表記も残す
func requestedLabel(raw string, canonical model.OrderStatus) string {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, string(canonical)) {
		return string(canonical)
	}
	return fmt.Sprintf("%s (%s)", canonical, raw)
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			LineSubtotal: it.LineSubtotal,
			Notes:        it.Notes,
		})
	}
	return OrderOutput{
		ID:            o.ID,
		ClientID:      o.ClientID,
		TableID:       o.TableID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         outItems,
	}
}
