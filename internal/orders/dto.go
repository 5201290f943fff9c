package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// CartLine is one client-held cart entry. Only the listing identity and
// quantity are trusted; price and availability are re-read at composition.
type CartLine struct {
	ListingID uuid.UUID
	Quantity  int
}

// DeliveryInfo carries the customer's destination for the whole order.
type DeliveryInfo struct {
	Address    string
	City       string
	PostalCode string
}

// CreateOrderInput captures everything the composer needs to build an order.
type CreateOrderInput struct {
	CustomerID      uuid.UUID
	Lines           []CartLine
	Delivery        DeliveryInfo
	PaymentMethod   enums.PaymentMethod
	PaymentMethodID string
}

// OrderFilters describe the inputs supported by the order lists.
type OrderFilters struct {
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}

// OrderSummary exposes the fields returned in order lists: the order header
// plus its item snapshots and the status of each delivery raised against it.
type OrderSummary struct {
	ID               uuid.UUID              `json:"id"`
	OrderNumber      string                 `json:"order_number"`
	OrderDate        time.Time              `json:"order_date"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	PaymentMethod    enums.PaymentMethod    `json:"payment_method"`
	PaymentStatus    enums.PaymentStatus    `json:"payment_status"`
	OrderStatus      enums.OrderStatus      `json:"order_status"`
	TotalItems       int                    `json:"total_items"`
	Items            []models.OrderItem     `json:"items"`
	DeliveryStatuses []enums.DeliveryStatus `json:"delivery_statuses"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// FarmerOrderSummary is the farmer-scoped projection of an order: only the
// farmer's own contribution is totalled.
type FarmerOrderSummary struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	OrderDate      time.Time           `json:"order_date"`
	OrderStatus    enums.OrderStatus   `json:"order_status"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	DeliveryCity   string              `json:"delivery_city"`
	FarmerSubtotal decimal.Decimal     `json:"farmer_subtotal"`
	ItemCount      int                 `json:"item_count"`
}

// FarmerOrderList wraps the paginated farmer orders plus the next cursor.
type FarmerOrderList struct {
	Orders     []FarmerOrderSummary `json:"orders"`
	NextCursor string               `json:"next_cursor,omitempty"`
}
