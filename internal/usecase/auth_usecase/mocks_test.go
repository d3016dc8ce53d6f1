package auth

import (
	"context"
	"time"

	"restaurant-api/internal/domain/model"
	"restaurant-api/internal/repository"

	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

type UserAdminRepoMock struct{ mock.Mock }

func (m *UserAdminRepoMock) List(ctx context.Context, q repository.UserListQuery) ([]model.User, int64, error) {
	args := m.Called(ctx, q)
	us, _ := args.Get(0).([]model.User)
	total, _ := args.Get(1).(int64)
	return us, total, args.Error(2)
}

func (m *UserAdminRepoMock) Update(ctx context.Context, userID int64, u repository.UserUpdate) error {
	args := m.Called(ctx, userID, u)
	return args.Error(0)
}

type AttemptRepoMock struct{ mock.Mock }

func (m *AttemptRepoMock) RegisterFailure(ctx context.Context, key string, now time.Time, window time.Duration) (int, error) {
	args := m.Called(ctx, key, now, window)
	return args.Int(0), args.Error(1)
}

func (m *AttemptRepoMock) Failures(ctx context.Context, key string, now time.Time, window time.Duration) (int, error) {
	args := m.Called(ctx, key, now, window)
	return args.Int(0), args.Error(1)
}

func (m *AttemptRepoMock) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
