package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// Order is the aggregate root produced by the order composer. Items are
// fixed at creation; only payment and order status mutate afterwards.
type Order struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber        string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID         uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Subtotal           decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee        decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	TotalAmount        decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus      enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentRef         *string             `gorm:"column:payment_ref"`
	OrderStatus        enums.OrderStatus   `gorm:"column:order_status;type:text;not null;default:'pending'"`
	DeliveryAddress    string              `gorm:"column:delivery_address;not null"`
	DeliveryCity       string              `gorm:"column:delivery_city;not null"`
	DeliveryPostalCode string              `gorm:"column:delivery_postal_code;not null"`
	OrderDate          time.Time           `gorm:"column:order_date;not null"`
	Items              []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Deliveries         []Delivery          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
