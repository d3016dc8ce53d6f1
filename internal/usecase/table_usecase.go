package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"go.uber.org/zap"
)

const maxTableLocationLength = 100

// 店内テーブルの管理（スタッフは一覧と状態変更、管理者は追加・削除）
type TableUsecase struct {
	tableRepo repo.TableRepository
	timeout   time.Duration
	logger    *zap.Logger
}

func NewTableUsecase(tableRepo repo.TableRepository, timeout time.Duration, logger *zap.Logger) *TableUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableUsecase{tableRepo: tableRepo, timeout: timeout, logger: logger}
}

// スペイン語の表記（libre等）も受ける
var tableStatusAliases = map[string]model.TableStatus{
	"available":     model.TableStatusAvailable,
	"libre":         model.TableStatusAvailable,
	"occupied":      model.TableStatusOccupied,
	"ocupada":       model.TableStatusOccupied,
	"reserved":      model.TableStatusReserved,
	"reservada":     model.TableStatusReserved,
	"maintenance":   model.TableStatusMaintenance,
	"mantenimiento": model.TableStatusMaintenance,
}

func ParseTableStatus(raw string) (model.TableStatus, error) {
	s, ok := tableStatusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", NewValidationError("invalid table status")
	}
	return s, nil
}

func (u *TableUsecase) ListTables(ctx context.Context, actor Actor, status string) ([]model.Table, error) {
	if !actor.IsStaff() {
		return nil, NewForbiddenError("forbidden")
	}
	var filter *model.TableStatus
	if strings.TrimSpace(status) != "" {
		s, err := ParseTableStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &s
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	tables, err := u.tableRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	if tables == nil {
		tables = []model.Table{}
	}
	return tables, nil
}

type CreateTableInput struct {
	Number   int    `json:"number"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

func (u *TableUsecase) CreateTable(ctx context.Context, actor Actor, in CreateTableInput) (model.Table, error) {
	if actor.Role != model.RoleAdmin {
		return model.Table{}, NewForbiddenError("forbidden")
	}
	if in.Number <= 0 {
		return model.Table{}, NewValidationError("number must be greater than 0")
	}
	location, err := validateTableLocation(in.Location)
	if err != nil {
		return model.Table{}, err
	}
	status := model.TableStatusAvailable
	if strings.TrimSpace(in.Status) != "" {
		if status, err = ParseTableStatus(in.Status); err != nil {
			return model.Table{}, err
		}
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	t, err := u.tableRepo.Create(ctx, model.Table{Number: in.Number, Location: location, Status: status})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Table{}, NewConflictError("table number already exists")
	}
	if err != nil {
		return model.Table{}, storeError(err)
	}
	u.logger.Info("table created", zap.Int64("table_id", t.ID), zap.Int("number", t.Number))
	return t, nil
}

type UpdateTableInput struct {
	Status   *string `json:"status"`
	Location *string `json:"location"`
}

func (u *TableUsecase) UpdateTable(ctx context.Context, actor Actor, tableID int64, in UpdateTableInput) (model.Table, error) {
	if !actor.IsStaff() {
		return model.Table{}, NewForbiddenError("forbidden")
	}
	if tableID <= 0 {
		return model.Table{}, NewValidationError("invalid table id")
	}
	if in.Status == nil && in.Location == nil {
		return model.Table{}, NewValidationError("nothing to update")
	}

	var upd repo.TableUpdate
	if in.Status != nil {
		s, err := ParseTableStatus(*in.Status)
		if err != nil {
			return model.Table{}, err
		}
		upd.Status = &s
	}
	if in.Location != nil {
		// 場所の変更は管理者だけ
		if actor.Role != model.RoleAdmin {
			return model.Table{}, NewForbiddenError("forbidden")
		}
		loc, err := validateTableLocation(*in.Location)
		if err != nil {
			return model.Table{}, err
		}
		upd.Location = &loc
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.tableRepo.Update(ctx, tableID, upd); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Table{}, NewNotFoundError("table not found")
		}
		return model.Table{}, storeError(err)
	}
	t, err := u.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		return model.Table{}, storeError(err)
	}
	u.logger.Info("table updated",
		zap.Int64("table_id", tableID),
		zap.String("status", string(t.Status)),
		zap.Int64("user_id", actor.UserID),
	)
	return t, nil
}

func (u *TableUsecase) DeleteTable(ctx context.Context, actor Actor, tableID int64) error {
	if actor.Role != model.RoleAdmin {
		return NewForbiddenError("forbidden")
	}
	if tableID <= 0 {
		return NewValidationError("invalid table id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.tableRepo.Delete(ctx, tableID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("table not found")
		}
		return storeError(err)
	}
	u.logger.Info("table deleted", zap.Int64("table_id", tableID))
	return nil
}

func validateTableLocation(raw string) (string, error) {
	loc := strings.TrimSpace(raw)
	if len([]rune(loc)) > maxTableLocationLength {
		return "", NewValidationError("location too long")
	}
	return loc, nil
}
