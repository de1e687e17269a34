package services

import (
	"context"

	"campo-listings/internal/models"
)

type DashboardService struct {
	client APIClient
}

func NewDashboardService(client APIClient) *DashboardService {
	return &DashboardService{client: client}
}

// Stats returns the admin dashboard counters.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := s.client.Get(ctx, "/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
