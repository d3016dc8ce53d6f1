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

func TestAppend_SurvivesCancelledRequest(t *testing.T) {
	auditRepo := new(AuditRepoMock)
	uc := NewAuditUsecase(auditRepo, nil)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	auditRepo.On("Create", mock.MatchedBy(func(ctx context.Context) bool {
		// 呼び出し元のキャンセルは伝播しない
		return ctx.Err() == nil
	}), mock.MatchedBy(func(l model.AuditLog) bool {
		return l.OrderID == 1 && l.CreatedAt.Equal(fixed) &&
			*l.FromStatus == "ready" && *l.ToStatus == "delivered"
	})).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	from, to := model.OrderStatusReady, model.OrderStatusDelivered
	uc.Append(ctx, AuditEvent{OrderID: 1, Action: model.AuditActionOrderStatusChanged, From: &from, To: &to})
	auditRepo.AssertExpectations(t)
}

func TestHistory_UsesStoredEntries(t *testing.T) {
	auditRepo := new(AuditRepoMock)
	uc := NewAuditUsecase(auditRepo, nil)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	auditRepo.On("List", mock.Anything, mock.Anything).Return([]model.AuditLog{
		{ID: 2, Description: "status changed pending -> preparing", FromStatus: strp("pending"), ToStatus: strp("preparing"), CreatedAt: at},
		{ID: 1, Description: "order created", ToStatus: strp("pending"), CreatedAt: at.Add(-time.Minute)},
	}, int64(2), nil)

	got := uc.History(context.Background(), model.Order{ID: 1})
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), *got[0].ID)
	assert.Equal(t, "preparing", *got[0].To)
}

func TestHistory_LookupFailureFallsBack(t *testing.T) {
	auditRepo := new(AuditRepoMock)
	uc := NewAuditUsecase(auditRepo, nil)
	auditRepo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("db down"))

	got := uc.History(context.Background(), model.Order{ID: 1, Status: model.OrderStatusReady})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ID)
	assert.Equal(t, "ready", *got[0].To)
}

func TestAuditList(t *testing.T) {
	auditRepo := new(AuditRepoMock)
	uc := NewAuditUsecase(auditRepo, nil)
	action := model.AuditActionPaymentReconciled

	auditRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Limit == 10 && f.Offset == 20 && f.Action != nil && *f.Action == action
	})).Return(nil, int64(25), nil)

	out, err := uc.List(context.Background(), ListAuditEventsInput{Action: &action, Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalPages)
	assert.NotNil(t, out.Events)
	assert.Empty(t, out.Events)

	_, err = uc.List(context.Background(), ListAuditEventsInput{Limit: 500})
	assertKind(t, err, KindValidation)
}
