package usecase

import (
	"context"
	"time"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"go.uber.org/zap"
)

const (
	auditWriteTimeout = 3 * time.Second
	historyLimit      = 5
)

// 監査イベント（ステータス以外の操作ではFrom/Toはnil）
type AuditEvent struct {
	OrderID     int64
	ActorUserID *int64
	Action      model.AuditAction
	From        *model.OrderStatus
	To          *model.OrderStatus
	Description string
}

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuditUsecase(auditRepo repo.AuditLogRepository, logger *zap.Logger) *AuditUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditUsecase{auditRepo: auditRepo, logger: logger, now: time.Now}
}

// Append は失敗しても呼び出し元に返さない（ログのみ）。
// リクエストのキャンセルに巻き込まれないよう独立したctxで書く。
func (u *AuditUsecase) Append(ctx context.Context, e AuditEvent) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	log := model.AuditLog{
		OrderID:     e.OrderID,
		ActorUserID: e.ActorUserID,
		Action:      e.Action,
		FromStatus:  statusPtr(e.From),
		ToStatus:    statusPtr(e.To),
		Description: e.Description,
		CreatedAt:   u.now(),
	}
	if err := u.auditRepo.Create(wctx, log); err != nil {
		u.logger.Warn("audit append failed",
			zap.Int64("order_id", e.OrderID),
			zap.String("action", string(e.Action)),
			zap.Error(err),
		)
	}
}

type HistoryEntry struct {
	ID          *int64    `json:"id"`
	Description string    `json:"description"`
	From        *string   `json:"from"`
	To          *string   `json:"to"`
	At          time.Time `json:"at"`
}

// History は直近の履歴を新しい順で返す。取れなければ作成イベントを合成する
func (u *AuditUsecase) History(ctx context.Context, o model.Order) []HistoryEntry {
	orderID := o.ID
	logs, _, err := u.auditRepo.List(ctx, repo.AuditLogFilter{OrderID: &orderID, Limit: historyLimit})
	if err != nil {
		u.logger.Warn("history lookup failed", zap.Int64("order_id", o.ID), zap.Error(err))
	}
	if len(logs) == 0 {
		to := string(o.Status)
		return []HistoryEntry{{Description: "order created", To: &to, At: o.CreatedAt}}
	}

	out := make([]HistoryEntry, 0, len(logs))
	for _, l := range logs {
		id := l.ID
		out = append(out, HistoryEntry{
			ID:          &id,
			Description: l.Description,
			From:        l.FromStatus,
			To:          l.ToStatus,
			At:          l.CreatedAt,
		})
	}
	return out
}

type ListAuditEventsInput struct {
	OrderID *int64
	Action  *model.AuditAction
	From    *time.Time
	To      *time.Time
	Page    int
	Limit   int
}

type AuditListOutput struct {
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
	Events     []model.AuditLog `json:"events"`
}

// 管理者向け一覧
func (u *AuditUsecase) List(ctx context.Context, in ListAuditEventsInput) (AuditListOutput, error) {
	page, limit, err := NormalizePaging(in.Page, in.Limit)
	if err != nil {
		return AuditListOutput{}, err
	}

	logs, total, err := u.auditRepo.List(ctx, repo.AuditLogFilter{
		OrderID:     in.OrderID,
		Action:      in.Action,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
	if err != nil {
		return AuditListOutput{}, storeError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}

	return AuditListOutput{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		Events:     logs,
	}, nil
}

func statusPtr(s *model.OrderStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
