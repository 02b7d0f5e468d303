package service

import (
	"context"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

type DashboardService struct {
	Repo *repo.GormRepo
}

func (s *DashboardService) Stats(ctx context.Context) (transport.DashboardStats, error) {
	st, err := s.Repo.OrderStats(ctx)
	if err != nil {
		return transport.DashboardStats{}, err
	}
	products, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return transport.DashboardStats{}, err
	}
	return transport.DashboardStats{
		TotalOrders:     st.Total,
		TotalProducts:   products,
		TotalRevenue:    st.Revenue,
		PendingOrders:   st.Pending,
		ConfirmedOrders: st.Confirmed,
	}, nil
}

// Reset soft-deletes every order so the statistics start from zero.
func (s *DashboardService) Reset(ctx context.Context, actor string) (int64, error) {
	n, err := s.Repo.SoftDeleteAllOrders(ctx)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Warn("dashboard_reset", "svc", "dashboard.reset", "orders", n, "actor", actor)
	return n, nil
}
