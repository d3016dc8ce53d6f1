package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	tx       *TxManagerMock
	orders   *OrderRepoMock
	items    *OrderItemRepoMock
	products *ProductRepoMock
	tables   *TableRepoMock
	users    *UserRepoMock
	audit    *AuditRepoMock
	uc       *OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   new(OrderRepoMock),
		items:    new(OrderItemRepoMock),
		products: new(ProductRepoMock),
		tables:   new(TableRepoMock),
		users:    new(UserRepoMock),
		audit:    new(AuditRepoMock),
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		products:   f.products,
		tables:     f.tables,
		users:      f.users,
	}}
	f.uc = NewOrderUsecase(f.tx, f.orders, f.items, f.tables, NewAuditUsecase(f.audit, nil), time.Second, nil)
	return f
}

var staff = Actor{UserID: 2, Role: model.RoleStaff}

// =====================
// CreateOrder
// =====================

func TestCreateOrder_PricesFromCatalog(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.tables.On("FindByID", mock.Anything, int64(5)).Return(model.Table{ID: 5}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{1}).
		Return([]model.Product{{ID: 1, Name: "Bandeja", Price: 10, Available: true}}, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Total == 20 &&
			o.Status == model.OrderStatusPending &&
			o.PaymentStatus == model.PaymentStatusUnpaid &&
			o.TableID != nil && *o.TableID == 5 && o.ClientID == nil
	})).Return(model.Order{
		ID: 100, TableID: i64(5), Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid, Total: 20,
	}, nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].UnitPrice == 10 && items[0].LineSubtotal == 20 && items[0].ProductName == "Bandeja"
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.OrderID == 100 &&
			l.Action == model.AuditActionOrderCreated &&
			l.FromStatus == nil &&
			l.ToStatus != nil && *l.ToStatus == "pending" &&
			l.Description == "order created"
	})).Return(nil)

	out, err := f.uc.CreateOrder(ctx, staff, CreateOrderInput{
		TableID: i64(5),
		// クライアント送信の単価は無視される
		Items: []LineItemInput{{ProductID: 1, Quantity: 2, UnitPrice: f64(1)}},
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, out.Total)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "unpaid", out.PaymentStatus)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 10.0, out.Items[0].UnitPrice)

	f.tx.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestCreateOrder_RequiresClientOrTable(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
		Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertKind(t, err, KindValidation)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCreateOrder_ItemValidation(t *testing.T) {
	cases := map[string][]LineItemInput{
		"empty":           {},
		"missing product": {{Quantity: 1}},
		"zero quantity":   {{ProductID: 1, Quantity: 0}},
		"negative":        {{ProductID: 1, Quantity: -2}},
		"fractional":      {{ProductID: 1, Quantity: 1.5}},
		"second item bad": {{ProductID: 1, Quantity: 1}, {ProductID: 2}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			f := newOrderFixture()
			_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{TableID: i64(1), Items: items})
			assertKind(t, err, KindValidation)
			f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.tables.On("FindByID", mock.Anything, int64(1)).Return(model.Table{ID: 1}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{1, 9}).
		Return([]model.Product{{ID: 1, Name: "Arepa", Price: 5, Available: true}}, nil)

	_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
		TableID: i64(1),
		Items:   []LineItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 9, Quantity: 1}, {ProductID: 1, Quantity: 3}},
	})
	assertKind(t, err, KindValidation)
	assertErrContains(t, err, "product not found: 9")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_ClientTotalTolerance(t *testing.T) {
	setup := func() *orderFixture {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.tables.On("FindByID", mock.Anything, int64(1)).Return(model.Table{ID: 1}, nil)
		f.products.On("FindByIDs", mock.Anything, []int64{1}).
			Return([]model.Product{{ID: 1, Name: "Arepa", Price: 10, Available: true}}, nil)
		return f
	}

	t.Run("mismatch", func(t *testing.T) {
		f := setup()
		_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
			TableID: i64(1), Items: []LineItemInput{{ProductID: 1, Quantity: 2}}, Total: f64(25),
		})
		assertKind(t, err, KindValidation)
		assertErrContains(t, err, "expected 20.00")
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("within tolerance", func(t *testing.T) {
		f := setup()
		f.orders.On("Create", mock.Anything, mock.Anything).Return(model.Order{ID: 1, Total: 20}, nil)
		f.items.On("CreateBulk", mock.Anything, int64(1), mock.Anything).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		out, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
			TableID: i64(1), Items: []LineItemInput{{ProductID: 1, Quantity: 2}}, Total: f64(20.01),
		})
		require.NoError(t, err)
		// 保存されるのはサーバー計算値
		assert.Equal(t, 20.0, out.Total)
	})
}

func TestCreateOrder_ReferencedEntitiesMustExist(t *testing.T) {
	t.Run("client", func(t *testing.T) {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.users.On("FindByID", mock.Anything, int64(77)).Return(nil, nil)

		_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
			ClientID: i64(77), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
		})
		assertKind(t, err, KindNotFound)
	})

	t.Run("table", func(t *testing.T) {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.tables.On("FindByID", mock.Anything, int64(8)).Return(model.Table{}, repo.ErrNotFound)

		_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
			TableID: i64(8), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
		})
		assertKind(t, err, KindNotFound)
		assertErrContains(t, err, "table not found")
	})
}

func TestCreateOrder_ClientCannotOrderForOthers(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.CreateOrder(context.Background(), Actor{UserID: 1, Role: model.RoleClient}, CreateOrderInput{
		ClientID: i64(2), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertKind(t, err, KindForbidden)
}

func TestCreateOrder_AuditFailureIsSwallowed(t *testing.T) {
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.users.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{1}).
		Return([]model.Product{{ID: 1, Name: "Arepa", Price: 4.5, Available: true}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(model.Order{ID: 9, ClientID: i64(3), Total: 4.5}, nil)
	f.items.On("CreateBulk", mock.Anything, int64(9), mock.Anything).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit down"))

	out, err := f.uc.CreateOrder(context.Background(), Actor{UserID: 3, Role: model.RoleClient}, CreateOrderInput{
		ClientID: i64(3), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
}

func TestCreateOrder_StoreTimeoutIsUpstream(t *testing.T) {
	f := newOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.tables.On("FindByID", mock.Anything, int64(1)).Return(model.Table{}, context.DeadlineExceeded)

	_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
		TableID: i64(1), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertKind(t, err, KindUpstreamUnavailable)
}

func TestCreateOrder_CatalogLookupHasDeadline(t *testing.T) {
	f := newOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.tables.On("FindByID", mock.Anything, int64(1)).Return(model.Table{ID: 1}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{1}).
		Run(func(args mock.Arguments) {
			deadline, ok := args.Get(0).(context.Context).Deadline()
			require.True(t, ok, "catalog lookup must be bounded")
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
		}).
		Return([]model.Product{}, nil)

	_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
		TableID: i64(1), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
	})
	// 商品が無いのでvalidation（ここでは期限の有無だけ見る）
	assertKind(t, err, KindValidation)
	f.products.AssertExpectations(t)
}

func TestCreateOrder_StalledCatalogIsUpstream(t *testing.T) {
	f := newOrderFixture()
	f.uc.timeout = 20 * time.Millisecond
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.tables.On("FindByID", mock.Anything, int64(1)).Return(model.Table{ID: 1}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{1}).
		Run(func(args mock.Arguments) {
			// 応答しないストア
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	start := time.Now()
	_, err := f.uc.CreateOrder(context.Background(), staff, CreateOrderInput{
		TableID: i64(1), Items: []LineItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertKind(t, err, KindUpstreamUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUpdateOrderTable_TableLookupHasDeadline(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPending}, nil)
	f.tables.On("FindByID", mock.Anything, int64(4)).
		Run(func(args mock.Arguments) {
			_, ok := args.Get(0).(context.Context).Deadline()
			assert.True(t, ok)
		}).
		Return(model.Table{}, repo.ErrNotFound)

	_, err := f.uc.UpdateOrderTable(context.Background(), staff, 1, i64(4))
	assertKind(t, err, KindNotFound)
	f.tables.AssertExpectations(t)
}

// =====================
// UpdateOrderStatus
// =====================

func TestUpdateOrderStatus_ScenarioDeliveredFromPending(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPending}, nil)

	_, err := f.uc.UpdateOrderStatus(context.Background(), staff, 1, "entregado")
	assertKind(t, err, KindInvalidTransition)
	assertErrContains(t, err, "pending")
	assertErrContains(t, err, "delivered (entregado)")
	f.orders.AssertNotCalled(t, "UpdateStatusIfCurrent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_SameStatusIsNoop(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPreparing}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	for i := 0; i < 2; i++ {
		out, err := f.uc.UpdateOrderStatus(context.Background(), staff, 1, "  Preparación ")
		require.NoError(t, err)
		assert.Equal(t, "preparing", out.Status)
	}
	f.orders.AssertNotCalled(t, "UpdateStatusIfCurrent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_AppliesAndAudits(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusPending}, nil)
	f.orders.On("UpdateStatusIfCurrent", mock.Anything, int64(1), model.OrderStatusPending, model.OrderStatusPreparing).
		Return(true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionOrderStatusChanged &&
			l.FromStatus != nil && *l.FromStatus == "pending" &&
			l.ToStatus != nil && *l.ToStatus == "preparing" &&
			l.ActorUserID != nil && *l.ActorUserID == staff.UserID
	})).Return(nil)

	out, err := f.uc.UpdateOrderStatus(context.Background(), staff, 1, "En preparación")
	require.NoError(t, err)
	assert.Equal(t, "preparing", out.Status)
	f.audit.AssertExpectations(t)
}

func TestUpdateOrderStatus_LostRaceIsInvalidTransition(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusPreparing}, nil).Once()
	f.orders.On("UpdateStatusIfCurrent", mock.Anything, int64(1), model.OrderStatusPreparing, model.OrderStatusReady).
		Return(false, nil)
	// 先に別リクエストがキャンセルした
	f.orders.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusCancelled}, nil).Once()

	_, err := f.uc.UpdateOrderStatus(context.Background(), staff, 1, "ready")
	assertKind(t, err, KindInvalidTransition)
	assertErrContains(t, err, "from cancelled to ready")
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_DisallowedPairs(t *testing.T) {
	all := []model.OrderStatus{
		model.OrderStatusPending, model.OrderStatusPreparing, model.OrderStatusReady,
		model.OrderStatusDelivered, model.OrderStatusCancelled,
	}
	for _, from := range all {
		for _, to := range all {
			if from == to || CanTransition(from, to) {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newOrderFixture()
				f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: from}, nil)

				_, err := f.uc.UpdateOrderStatus(context.Background(), staff, 1, string(to))
				assertKind(t, err, KindInvalidTransition)
				f.orders.AssertNotCalled(t, "UpdateStatusIfCurrent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	}
}

func TestUpdateOrderStatus_InputErrors(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(404)).Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.UpdateOrderStatus(context.Background(), staff, 1, "flying")
	assertKind(t, err, KindValidation)

	_, err = f.uc.UpdateOrderStatus(context.Background(), staff, 1, "  ")
	assertKind(t, err, KindValidation)

	_, err = f.uc.UpdateOrderStatus(context.Background(), staff, 404, "ready")
	assertKind(t, err, KindNotFound)
}

// =====================
// Table / payment flag / delete
// =====================

func TestUpdateOrderTable(t *testing.T) {
	t.Run("missing table id", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.UpdateOrderTable(context.Background(), staff, 1, nil)
		assertKind(t, err, KindValidation)
	})

	t.Run("unknown table", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1}, nil)
		f.tables.On("FindByID", mock.Anything, int64(3)).Return(model.Table{}, repo.ErrNotFound)

		_, err := f.uc.UpdateOrderTable(context.Background(), staff, 1, i64(3))
		assertKind(t, err, KindNotFound)
		f.orders.AssertNotCalled(t, "UpdateTable", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ok", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusReady}, nil)
		f.tables.On("FindByID", mock.Anything, int64(3)).Return(model.Table{ID: 3}, nil)
		f.orders.On("UpdateTable", mock.Anything, int64(1), int64(3)).Return(nil)
		f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
			return l.Action == model.AuditActionOrderTableChanged &&
				l.FromStatus == nil && l.ToStatus == nil &&
				l.Description == "table changed to 3"
		})).Return(nil)

		out, err := f.uc.UpdateOrderTable(context.Background(), staff, 1, i64(3))
		require.NoError(t, err)
		require.NotNil(t, out.TableID)
		assert.Equal(t, int64(3), *out.TableID)
		assert.Equal(t, "ready", out.Status)
		f.audit.AssertExpectations(t)
	})
}

func TestUpdateOrderPayment(t *testing.T) {
	t.Run("invalid value", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.UpdateOrderPayment(context.Background(), staff, 1, "refunded")
		assertKind(t, err, KindValidation)
	})

	t.Run("not found", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("UpdatePaymentStatus", mock.Anything, int64(1), model.PaymentStatusPaid).Return(repo.ErrNotFound)
		_, err := f.uc.UpdateOrderPayment(context.Background(), staff, 1, "paid")
		assertKind(t, err, KindNotFound)
	})

	t.Run("ok", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("UpdatePaymentStatus", mock.Anything, int64(1), model.PaymentStatusPaid).Return(nil)
		f.orders.On("FindByID", mock.Anything, int64(1)).
			Return(model.Order{ID: 1, Status: model.OrderStatusDelivered, PaymentStatus: model.PaymentStatusPaid}, nil)
		f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		out, err := f.uc.UpdateOrderPayment(context.Background(), staff, 1, " PAID ")
		require.NoError(t, err)
		assert.Equal(t, "paid", out.PaymentStatus)
		// 支払いフラグの変更でステータスは動かない
		assert.Equal(t, "delivered", out.Status)
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.items.On("DeleteByOrderID", mock.Anything, int64(5)).Return(nil)
		f.orders.On("Delete", mock.Anything, int64(5)).Return(repo.ErrNotFound)

		assertKind(t, f.uc.DeleteOrder(context.Background(), 5), KindNotFound)
	})

	t.Run("ok", func(t *testing.T) {
		f := newOrderFixture()
		f.tx.On("WithinTx", mock.Anything).Return(nil)
		f.items.On("DeleteByOrderID", mock.Anything, int64(5)).Return(nil)
		f.orders.On("Delete", mock.Anything, int64(5)).Return(nil)

		require.NoError(t, f.uc.DeleteOrder(context.Background(), 5))
		f.items.AssertExpectations(t)
	})
}

// =====================
// Read side
// =====================

func TestGetOrder_SyntheticHistory(t *testing.T) {
	f := newOrderFixture()
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f.orders.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, ClientID: i64(3), Status: model.OrderStatusPending, CreatedAt: created}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	f.audit.On("List", mock.Anything, mock.MatchedBy(func(fl repo.AuditLogFilter) bool {
		return fl.OrderID != nil && *fl.OrderID == 1 && fl.Limit == 5
	})).Return([]model.AuditLog{}, int64(0), nil)

	out, err := f.uc.GetOrder(context.Background(), Actor{UserID: 3, Role: model.RoleClient}, 1)
	require.NoError(t, err)
	require.Len(t, out.History, 1)
	assert.Equal(t, "order created", out.History[0].Description)
	assert.Nil(t, out.History[0].From)
	assert.Equal(t, "pending", *out.History[0].To)
	assert.Equal(t, created, out.History[0].At)
}

func TestGetOrder_ClientCannotSeeOthers(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, ClientID: i64(3)}, nil)

	_, err := f.uc.GetOrder(context.Background(), Actor{UserID: 4, Role: model.RoleClient}, 1)
	assertKind(t, err, KindForbidden)
}

func TestListOrders(t *testing.T) {
	t.Run("limit out of range", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.ListOrders(context.Background(), ListOrdersInput{Page: 1, Limit: 101})
		assertKind(t, err, KindValidation)
	})

	t.Run("status synonym and paging", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("List", mock.Anything, mock.MatchedBy(func(fl repo.OrderListFilter) bool {
			return fl.Page == 2 && fl.Limit == 20 && fl.Status != nil && *fl.Status == model.OrderStatusReady
		})).Return([]model.Order{{ID: 7, Status: model.OrderStatusReady}}, int64(21), nil)
		f.items.On("ListByOrderID", mock.Anything, int64(7)).Return([]model.OrderItem{}, nil)

		out, err := f.uc.ListOrders(context.Background(), ListOrdersInput{Page: 2, Status: "Listo"})
		require.NoError(t, err)
		assert.Equal(t, 2, out.TotalPages)
		assert.Equal(t, int64(21), out.Total)
		require.Len(t, out.Orders, 1)
	})

	t.Run("bad status", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.ListOrders(context.Background(), ListOrdersInput{Status: "lost"})
		assertKind(t, err, KindValidation)
	})
}

func TestListClientOrders(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("ListByClientID", mock.Anything, int64(3)).
		Return([]model.Order{{ID: 2, ClientID: i64(3)}, {ID: 1, ClientID: i64(3)}}, nil)
	f.items.On("ListByOrderID", mock.Anything, mock.Anything).Return([]model.OrderItem{}, nil)

	out, err := f.uc.ListClientOrders(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
}
