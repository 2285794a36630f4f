package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"
	repo "zajil/internal/repository"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	audits repo.AuditLogRepository
	clock  Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, audits repo.AuditLogRepository, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, audits: audits, clock: clock}
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func checkFilter(f repo.AdminOrderListFilter) error {
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return apperr.Validation("status", "invalid status")
	}
	if f.Wilaya != "" && !model.IsWilaya(f.Wilaya) {
		return apperr.Validation("wilaya", "invalid wilaya")
	}
	return nil
}

// 注文一覧（status / wilaya で絞り込み）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, apperr.Validation("page", "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, apperr.Validation("limit", "invalid limit")
	}
	if err := checkFilter(f); err != nil {
		return AdminOrderListOutput{}, err
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderListOutput{}, apperr.Internal(err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return AdminOrderListOutput{Items: outs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// 絞り込みに合う注文を全部（エクスポート用）
func (u *AdminOrderUsecase) ListAll(ctx context.Context, status, wilaya string) ([]model.Order, error) {
	f := repo.AdminOrderListFilter{Page: 1, Limit: 100, Status: status, Wilaya: wilaya}
	if err := checkFilter(f); err != nil {
		return nil, err
	}

	var all []model.Order
	for {
		page, total, err := u.orders.ListAdmin(ctx, f)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		f.Page++
	}
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID string) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return OrderOutput{}, apperr.Internal(err)
	}
	return toOrderOutput(o), nil
}

// ステータス更新。キャンセルしても在庫は戻さない
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID string, status string) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, apperr.AuthFailed("unauthorized")
	}
	next := model.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return OrderOutput{}, apperr.Validation("status", fmt.Sprintf("%q is not a valid choice.", status))
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Order not found")
		}
		if err != nil {
			return apperr.Internal(err)
		}

		// すでに同じなら何もしない
		if o.Status == next {
			out = toOrderOutput(o)
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return apperr.Validation("status", fmt.Sprintf("cannot change order from %s to %s", o.Status, next))
		}

		before := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.NotFound("Order not found")
			}
			return apperr.Internal(err)
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, next),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return apperr.Internal(err)
		}

		o.Status = next
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, apperr.Internal(err)
	}
	return out, nil
}

// 注文のステータス変更履歴（新しい順）
func (u *AdminOrderUsecase) History(ctx context.Context, orderID string) ([]model.AuditLog, error) {
	if _, err := u.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal(err)
	}

	logs, err := u.audits.List(ctx, repo.AuditLogFilter{
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		Limit:        100,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
