package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageList unmarshals an image field that may be a single string or an
// array of strings; source payloads use both shapes.
type ImageList []string

func (l *ImageList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = ImageList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Product represents a product in the jewelry catalog
type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Price             float64            `bson:"price" json:"price"`
	Weight            float64            `bson:"weight" json:"weight"`
	PeopleCategory    string             `bson:"peopleCategory,omitempty" json:"peopleCategory,omitempty"`
	ProductCategory   string             `bson:"productCategory,omitempty" json:"productCategory,omitempty"`
	ProductType       string             `bson:"productType,omitempty" json:"productType,omitempty"`
	PriceRange        string             `bson:"priceRange,omitempty" json:"priceRange,omitempty"`
	Stock             int                `bson:"stock" json:"stock"`
	InStock           bool               `bson:"inStock" json:"inStock"`
	CustomOption      string             `bson:"customOption,omitempty" json:"customOption,omitempty"`
	CustomizationType string             `bson:"customizationType,omitempty" json:"customizationType,omitempty"`
	Images            []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomizationLabel returns the lowercased view of a customOption value.
// Absence is equivalent to "None".
func CustomizationLabel(customOption string) string {
	v := strings.TrimSpace(customOption)
	if v == "" {
		return "none"
	}
	return strings.ToLower(v)
}

// ProductUpdate carries the updatable fields of a product. Nil pointers
// leave the stored value untouched.
type ProductUpdate struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
	PeopleCategory  *string   `json:"peopleCategory,omitempty"`
	ProductCategory *string   `json:"productCategory,omitempty"`
	ProductType     *string   `json:"productType,omitempty"`
	PriceRange      *string   `json:"priceRange,omitempty"`
	Stock           *int      `json:"stock,omitempty"`
	CustomOption    *string   `json:"customOption,omitempty"`
	Images          ImageList `json:"images,omitempty"`
	DeleteImages    []int     `json:"deleteImages,omitempty"`
}

// ProductFilter is the typed query over the catalog. Zero values are
// no-ops; the store translates the set fields into one bson filter.
type ProductFilter struct {
	PeopleCategory   string
	ProductCategory  string
	ProductType      string
	PriceRange       string
	CustomOption     string
	Search           string
	MinPrice         *float64
	MaxPrice         *float64
	MinWeight        *float64
	MaxWeight        *float64
	InStock          *bool
	CustomizableOnly bool
	Sort             string
	Skip             int64
	Limit            int64
}

// Sort keys accepted by ProductFilter
const (
	SortNameAsc   = "name"
	SortNameDesc  = "-name"
	SortPriceAsc  = "price"
	SortPriceDesc = "-price"
	SortNewest    = "newest"
)

// StorefrontProduct is the customer-facing projection used by listing
// endpoints. Images are validated and capped; MainImage is never empty.
type StorefrontProduct struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Price             string   `json:"price"`
	MainImage         string   `json:"mainImage"`
	Images            []string `json:"images"`
	InStock           bool     `json:"inStock"`
	CustomizationType string   `json:"customizationType"`
	Description       string   `json:"description"`
}

// Order represents a captured order submission
type Order struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	OrderData       []OrderLine            `bson:"orderData" json:"orderData"`
	OrderSummary    map[string]interface{} `bson:"orderSummary,omitempty" json:"orderSummary,omitempty"`
	CustomerDetails map[string]interface{} `bson:"customerDetails,omitempty" json:"customerDetails,omitempty"`
	PaymentDetails  map[string]interface{} `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	TotalAmount     float64                `bson:"totalAmount" json:"totalAmount"`
	Status          string                 `bson:"status" json:"status"`
	CreatedAt       time.Time              `bson:"createdAt" json:"createdAt"`
}

// OrderLine is a single line item with its derived display total
type OrderLine struct {
	Name     string  `bson:"name,omitempty" json:"name,omitempty"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Total    string  `bson:"total" json:"total"`
}

// Order statuses. Only Pending is ever assigned by this service; the
// remaining values exist for the stored field, with no transition logic.
const (
	OrderStatusPending   = "Pending"
	OrderStatusPaid      = "Paid"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// DashboardSummary is the read-side aggregate over the order set
type DashboardSummary struct {
	TotalSales      float64 `json:"totalSales"`
	MonthlySales    float64 `json:"monthlySales"`
	TotalOrders     int     `json:"totalOrders"`
	MonthlyOrders   int     `json:"monthlyOrders"`
	RevenueGrowth   float64 `json:"revenueGrowth"`
	OrdersGrowth    float64 `json:"ordersGrowth"`
	TotalCustomers  int     `json:"totalCustomers"`
	CustomersGrowth float64 `json:"customersGrowth"`
}
