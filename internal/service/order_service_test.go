package service

import (
	"testing"

	"jewelry-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
	}{
		{1200.5, 1200.5},
		{500, 500},
		{int64(42), 42},
		{"1,000.00", 1000},
		{"₹ 1,200.50", 1200.5},
		{"Rs. 750", 750},
		{"  2,499  ", 2499},
		{"", 0},
		{"free", 0},
		{nil, 0},
		{true, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, parsePrice(tc.in), "input %v", tc.in)
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int
	}{
		{2, 2},
		{2.0, 2},
		{int64(3), 3},
		{"1", 1},
		{" 4 ", 4},
		{"many", 1},
		{0, 1},
		{-3, 1},
		{nil, 1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, parseQuantity(tc.in), "input %v", tc.in)
	}
}

func TestBuildOrderTotals(t *testing.T) {
	req := &CreateOrderRequest{
		OrderData: []OrderLineRequest{
			{Name: "Gold Ring", Price: "1,000.00", Quantity: 2},
			{Name: "Silver Chain", Price: 500, Quantity: "1"},
		},
	}

	order, err := buildOrder(req)
	require.NoError(t, err)

	assert.Equal(t, 2500.00, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.OrderData, 2)
	assert.Equal(t, "₹ 2000.00", order.OrderData[0].Total)
	assert.Equal(t, "₹ 500.00", order.OrderData[1].Total)
	assert.Equal(t, 2, order.OrderData[0].Quantity)
	assert.Equal(t, 1, order.OrderData[1].Quantity)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestBuildOrderCurrencyFormattedInput(t *testing.T) {
	req := &CreateOrderRequest{
		OrderData: []OrderLineRequest{
			{Name: "Pendant", Price: "₹ 1,200.50", Quantity: nil},
		},
	}

	order, err := buildOrder(req)
	require.NoError(t, err)

	assert.Equal(t, 1200.50, order.OrderData[0].Price)
	assert.Equal(t, 1, order.OrderData[0].Quantity)
	assert.Equal(t, "₹ 1200.50", order.OrderData[0].Total)
	assert.Equal(t, 1200.50, order.TotalAmount)
}

func TestBuildOrderRoundsTotal(t *testing.T) {
	req := &CreateOrderRequest{
		OrderData: []OrderLineRequest{
			{Price: 0.1, Quantity: 3},
			{Price: 0.2, Quantity: 1},
		},
	}

	order, err := buildOrder(req)
	require.NoError(t, err)
	assert.Equal(t, 0.5, order.TotalAmount)
}

func TestBuildOrderRejectsEmptyOrderData(t *testing.T) {
	_, err := buildOrder(&CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = buildOrder(&CreateOrderRequest{OrderData: []OrderLineRequest{}})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestBuildOrderPassesBlobsThrough(t *testing.T) {
	req := &CreateOrderRequest{
		OrderData:       []OrderLineRequest{{Price: 100, Quantity: 1}},
		OrderSummary:    map[string]interface{}{"coupon": "NONE"},
		CustomerDetails: map[string]interface{}{"email": "a@b.c"},
		PaymentDetails:  map[string]interface{}{"method": "upi"},
	}

	order, err := buildOrder(req)
	require.NoError(t, err)
	assert.Equal(t, req.OrderSummary, order.OrderSummary)
	assert.Equal(t, req.CustomerDetails, order.CustomerDetails)
	assert.Equal(t, req.PaymentDetails, order.PaymentDetails)
}
