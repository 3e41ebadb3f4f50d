package memory

import (
	"context"
	"sync"

	repo "localmarket/internal/repository"
)

type txRepos struct {
	orders        repo.OrderRepository
	notifications repo.NotificationRepository
	auditLogs     repo.AuditLogRepository
}

func (r *txRepos) Orders() repo.OrderRepository               { return r.orders }
func (r *txRepos) Notifications() repo.NotificationRepository { return r.notifications }
func (r *txRepos) AuditLogs() repo.AuditLogRepository         { return r.auditLogs }

// メモリ版はロールバックしない。WithinTx同士を直列にするだけ。
type TxManager struct {
	mu    sync.Mutex
	repos *txRepos
}

func NewTxManager(orders repo.OrderRepository, notifications repo.NotificationRepository, auditLogs repo.AuditLogRepository) *TxManager {
	return &TxManager{repos: &txRepos{
		orders:        orders,
		notifications: notifications,
		auditLogs:     auditLogs,
	}}
}

func (tm *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return fn(tm.repos)
}
