package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"jewelry-backend/internal/models"
	"jewelry-backend/internal/store"
	"jewelry-backend/internal/util"

	"go.uber.org/zap"
)

const defaultRecentOrders = 10

// OrderService handles order intake business logic
type OrderService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store) *OrderService {
	return &OrderService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateOrderRequest represents an order submission. Summary, customer and
// payment details are opaque pass-through blobs.
type CreateOrderRequest struct {
	OrderData       []OrderLineRequest     `json:"orderData"`
	OrderSummary    map[string]interface{} `json:"orderSummary"`
	CustomerDetails map[string]interface{} `json:"customerDetails"`
	PaymentDetails  map[string]interface{} `json:"paymentDetails"`
}

// OrderLineRequest is one submitted line item. Price and quantity arrive
// in whatever shape the storefront sends: numbers, plain strings or
// currency-formatted strings.
type OrderLineRequest struct {
	Name     string      `json:"name"`
	Price    interface{} `json:"price"`
	Quantity interface{} `json:"quantity"`
}

// Create validates and persists an order, computing line totals and the
// order total. Status is always Pending at creation.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	order, err := buildOrder(req)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("invalid_order_data").Inc()
		return nil, err
	}

	if err := s.store.InsertOrder(ctx, order); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("line_items", len(order.OrderData)))
	return order, nil
}

// buildOrder derives the persisted order from a submission: parsed line
// prices and quantities, formatted line totals, the rounded order total
// and the fixed initial status.
func buildOrder(req *CreateOrderRequest) (*models.Order, error) {
	if len(req.OrderData) == 0 {
		return nil, ErrInvalidOrder
	}

	lines := make([]models.OrderLine, 0, len(req.OrderData))
	var total float64
	for _, item := range req.OrderData {
		price := parsePrice(item.Price)
		quantity := parseQuantity(item.Quantity)
		lineTotal := price * float64(quantity)

		lines = append(lines, models.OrderLine{
			Name:     item.Name,
			Price:    price,
			Quantity: quantity,
			Total:    formatCurrency(lineTotal),
		})
		total += lineTotal
	}

	return &models.Order{
		OrderData:       lines,
		OrderSummary:    req.OrderSummary,
		CustomerDetails: req.CustomerDetails,
		PaymentDetails:  req.PaymentDetails,
		TotalAmount:     round2(total),
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
	}, nil
}

// Get retrieves an order by its id string
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Get")
	defer span.End()

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// List retrieves all orders, newest first
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	return s.store.ListOrders(ctx, 0)
}

// ListRecent retrieves the most recent orders
func (s *OrderService) ListRecent(ctx context.Context, limit int64) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListRecent")
	defer span.End()

	if limit <= 0 {
		limit = defaultRecentOrders
	}
	return s.store.ListOrders(ctx, limit)
}

// parsePrice extracts a number from possibly currency-formatted input:
// everything except digits, dot and minus is stripped before parsing.
// Unparseable values default to 0.
func parsePrice(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		var b strings.Builder
		for _, r := range t {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				b.WriteRune(r)
			}
		}
		parsed, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// parseQuantity parses a quantity with a minimum meaningful value of 1
func parseQuantity(v interface{}) int {
	q := 1
	switch t := v.(type) {
	case float64:
		q = int(t)
	case int:
		q = t
	case int64:
		q = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 1
		}
		q = parsed
	}
	if q < 1 {
		return 1
	}
	return q
}

func formatCurrency(v float64) string {
	return fmt.Sprintf("₹ %.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
