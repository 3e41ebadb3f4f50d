package usecase

import (
	"context"
	"net/http"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// 店舗ダッシュボードと請求書画面
type ReportUsecase struct {
	orders        repo.OrderRepository
	notifications repo.NotificationRepository
	invoices      model.InvoiceSummary
}

func NewReportUsecase(orders repo.OrderRepository, notifications repo.NotificationRepository, invoices model.InvoiceSummary) *ReportUsecase {
	return &ReportUsecase{orders: orders, notifications: notifications, invoices: invoices}
}

type QuickAction struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type DashboardOutput struct {
	ShopName            string          `json:"shop_name"`
	OwnerName           string          `json:"owner_name"`
	NewOrders           int             `json:"new_orders"`
	Sales               decimal.Decimal `json:"sales"`
	UnreadNotifications int             `json:"unread_notifications"`
	QuickActions        []QuickAction   `json:"quick_actions"`
}

var dashboardActions = []QuickAction{
	{Label: "الإشعارات", Path: "/merchant/notifications"},
	{Label: "طلبات العملاء", Path: "/merchant/orders"},
	{Label: "طلب بضاعة", Path: "/merchant/market"},
	{Label: "الفواتير", Path: "/merchant/invoices"},
}

// 今日のまとめ（新規注文数と売上）
func (u *ReportUsecase) Dashboard(ctx context.Context, user model.UserProfile) (DashboardOutput, error) {
	if !user.IsMerchant() {
		return DashboardOutput{}, NewHTTPError(http.StatusForbidden, "merchant only")
	}

	orders, err := u.orders.List(ctx, repo.OrderListFilter{Catalog: model.CatalogConsumer})
	if err != nil {
		return DashboardOutput{}, dbError(err)
	}

	out := DashboardOutput{
		OwnerName:    user.Name,
		Sales:        decimal.Zero,
		QuickActions: append([]QuickAction(nil), dashboardActions...),
	}
	if user.Merchant != nil {
		out.ShopName = user.Merchant.ShopName
	}

	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusPending:
			out.NewOrders++
		case model.OrderStatusConfirmed, model.OrderStatusDelivered:
			if o.TotalAmount.Valid {
				out.Sales = out.Sales.Add(o.TotalAmount.Decimal)
			}
		}
	}

	notes, err := u.notifications.List(ctx)
	if err != nil {
		return DashboardOutput{}, dbError(err)
	}
	for _, n := range notes {
		if !n.IsRead {
			out.UnreadNotifications++
		}
	}

	return out, nil
}

// 請求書画面の集計（参照データのコピー）
func (u *ReportUsecase) Invoices(ctx context.Context) (model.InvoiceSummary, error) {
	out := u.invoices
	out.Weekly = append([]model.SalesPoint(nil), u.invoices.Weekly...)
	out.Invoices = append([]model.Invoice(nil), u.invoices.Invoices...)
	return out, nil
}
