package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "Deliveries").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Deliveries").
		Preload("Deliveries.Vehicle").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)
	return r.listOrders(ctx, query, params, filters)
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	return r.listOrders(ctx, query, params, filters)
}

func (r *repository) listOrders(ctx context.Context, query *gorm.DB, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	if filters.OrderStatus != nil {
		query = query.Where("order_status = ?", *filters.OrderStatus)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.DateFrom != nil {
		query = query.Where("order_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("order_date <= ?", *filters.DateTo)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("Deliveries").Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}

	list := &OrderList{}
	if len(orders) > normalized {
		orders = orders[:normalized]
		last := orders[len(orders)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	list.Orders = make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		statuses := make([]enums.DeliveryStatus, 0, len(o.Deliveries))
		for _, d := range o.Deliveries {
			statuses = append(statuses, d.Status)
		}
		list.Orders = append(list.Orders, OrderSummary{
			ID:               o.ID,
			OrderNumber:      o.OrderNumber,
			OrderDate:        o.OrderDate,
			TotalAmount:      o.TotalAmount,
			PaymentMethod:    o.PaymentMethod,
			PaymentStatus:    o.PaymentStatus,
			OrderStatus:      o.OrderStatus,
			TotalItems:       len(o.Items),
			Items:            o.Items,
			DeliveryStatuses: statuses,
		})
	}
	return list, nil
}

type farmerOrderRow struct {
	ID             uuid.UUID
	OrderNumber    string
	CreatedAt      time.Time
	OrderDate      time.Time
	OrderStatus    enums.OrderStatus
	PaymentStatus  enums.PaymentStatus
	PaymentMethod  enums.PaymentMethod
	DeliveryCity   string
	FarmerSubtotal decimal.Decimal
	ItemCount      int
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*FarmerOrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("orders.id, orders.order_number, orders.created_at, orders.order_date, orders.order_status, orders.payment_status, orders.payment_method, orders.delivery_city, SUM(order_items.subtotal) AS farmer_subtotal, COUNT(order_items.id) AS item_count").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.farmer_id = ?", farmerID).
		Group("orders.id")
	if cursor != nil {
		query = query.Where("(orders.created_at, orders.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []farmerOrderRow
	if err := query.Order("orders.created_at DESC, orders.id DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	list := &FarmerOrderList{}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	list.Orders = make([]FarmerOrderSummary, 0, len(rows))
	for _, row := range rows {
		list.Orders = append(list.Orders, FarmerOrderSummary{
			ID:             row.ID,
			OrderNumber:    row.OrderNumber,
			OrderDate:      row.OrderDate,
			OrderStatus:    row.OrderStatus,
			PaymentStatus:  row.PaymentStatus,
			PaymentMethod:  row.PaymentMethod,
			DeliveryCity:   row.DeliveryCity,
			FarmerSubtotal: row.FarmerSubtotal,
			ItemCount:      row.ItemCount,
		})
	}
	return list, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("order_status", status).Error
}
