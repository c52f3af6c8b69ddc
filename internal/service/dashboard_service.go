package service

import (
	"context"
	"strings"
	"time"

	"jewelry-backend/internal/models"
	"jewelry-backend/internal/store"
	"jewelry-backend/internal/util"

	"go.uber.org/zap"
)

// DashboardService produces the sales summary. It re-reads the full order
// set on every call.
type DashboardService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *store.Store) *DashboardService {
	return &DashboardService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Summary computes the dashboard aggregate from scratch
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.Summary")
	defer span.End()

	orders, err := s.store.ListOrders(ctx, 0)
	if err != nil {
		return nil, err
	}
	return summarize(orders, time.Now()), nil
}

// summarize reduces the order set to the dashboard figures. Growth is the
// percentage change against the previous calendar month, and 0 whenever
// the previous-month baseline is 0.
func summarize(orders []models.Order, now time.Time) *models.DashboardSummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)
	nextStart := monthStart.AddDate(0, 1, 0)

	var totalSales, monthlySales, prevSales float64
	var monthlyOrders, prevOrders int

	allCustomers := map[string]bool{}
	monthCustomers := map[string]bool{}
	prevCustomers := map[string]bool{}

	for _, o := range orders {
		totalSales += o.TotalAmount

		email := customerEmail(o)
		if email != "" {
			allCustomers[email] = true
		}

		// bucket bounds are half-open; future-dated orders count in the
		// totals but in no month
		switch {
		case !o.CreatedAt.Before(monthStart) && o.CreatedAt.Before(nextStart):
			monthlySales += o.TotalAmount
			monthlyOrders++
			if email != "" {
				monthCustomers[email] = true
			}
		case !o.CreatedAt.Before(prevStart):
			prevSales += o.TotalAmount
			prevOrders++
			if email != "" {
				prevCustomers[email] = true
			}
		}
	}

	return &models.DashboardSummary{
		TotalSales:      round2(totalSales),
		MonthlySales:    round2(monthlySales),
		TotalOrders:     len(orders),
		MonthlyOrders:   monthlyOrders,
		RevenueGrowth:   growth(monthlySales, prevSales),
		OrdersGrowth:    growth(float64(monthlyOrders), float64(prevOrders)),
		TotalCustomers:  len(allCustomers),
		CustomersGrowth: growth(float64(len(monthCustomers)), float64(len(prevCustomers))),
	}
}

// growth returns the percentage change, 0 when the baseline is 0
func growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return round2((current - previous) / previous * 100)
}

// customerEmail extracts the customer email from the opaque details blob
func customerEmail(o models.Order) string {
	if o.CustomerDetails == nil {
		return ""
	}
	email, _ := o.CustomerDetails["email"].(string)
	return strings.ToLower(strings.TrimSpace(email))
}
