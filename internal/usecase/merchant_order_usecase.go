package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

// 店舗に届いた注文の管理
type MerchantOrderUsecase struct {
	orders    repo.OrderRepository
	auditLogs repo.AuditLogRepository
	tx        repo.TransactionManager
	clock     Clock
	logger    *slog.Logger
}

func NewMerchantOrderUsecase(
	orders repo.OrderRepository,
	auditLogs repo.AuditLogRepository,
	tx repo.TransactionManager,
	clock Clock,
	logger *slog.Logger,
) *MerchantOrderUsecase {
	return &MerchantOrderUsecase{orders: orders, auditLogs: auditLogs, tx: tx, clock: clock, logger: logger}
}

type UpdateOrderStatusInput struct {
	Status string
}

// 小売カタログの注文一覧（status指定は任意）
func (u *MerchantOrderUsecase) List(ctx context.Context, status string) (OrderListOutput, error) {
	f := repo.OrderListFilter{Catalog: model.CatalogConsumer}
	if s := strings.TrimSpace(status); s != "" {
		st := model.OrderStatus(s)
		if !st.Valid() {
			return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = st
	}

	orders, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, dbError(err)
	}
	return OrderListOutput{Items: orders, Total: len(orders)}, nil
}

// ステータス更新（同じなら何もしない、終端からは変えられない）
func (u *MerchantOrderUsecase) UpdateStatus(ctx context.Context, actorUserID string, orderID string, in UpdateOrderStatusInput) (model.Order, error) {
	if actorUserID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.OrderStatus(strings.TrimSpace(in.Status))
	if !next.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return dbError(err)
		}

		// すでに同じなら何もしない（200）
		if o.Status == next {
			out = o
			return nil
		}
		// 終端ガード
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest, "cannot change "+string(o.Status)+" order")
		}
		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusBadRequest, "invalid status transition")
		}

		before := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return dbError(err)
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + string(before) + `"}`,
			AfterJSON:    `{"status":"` + string(next) + `"}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return dbError(err)
		}

		o.Status = next
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID),
		slog.String("actor_user_id", actorUserID),
		slog.String("status", string(out.Status)),
	)
	return out, nil
}

type OrderHistoryOutput struct {
	OrderID string           `json:"order_id"`
	Items   []model.AuditLog `json:"items"`
}

// ステータス変更の履歴（新しい順）
func (u *MerchantOrderUsecase) History(ctx context.Context, orderID string) (OrderHistoryOutput, error) {
	if strings.TrimSpace(orderID) == "" {
		return OrderHistoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderHistoryOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return OrderHistoryOutput{}, dbError(err)
	}

	logs, err := u.auditLogs.List(ctx, repo.AuditLogFilter{
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
	})
	if err != nil {
		return OrderHistoryOutput{}, dbError(err)
	}
	return OrderHistoryOutput{OrderID: orderID, Items: logs}, nil
}
