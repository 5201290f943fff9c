package deliveries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a deliveries repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error) {
	if err := r.db.WithContext(ctx).Omit("Vehicle").Create(delivery).Error; err != nil {
		return nil, err
	}
	return delivery, nil
}

func (r *repository) Find(ctx context.Context, deliveryID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("id = ?", deliveryID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *repository) FindByOrderAndFarmer(ctx context.Context, orderID, farmerID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND farmer_id = ?", orderID, farmerID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Delivery, error) {
	var found []models.Delivery
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) ListByTransport(ctx context.Context, transportID uuid.UUID, params pagination.Params) (*DeliveryList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("transport_id = ?", transportID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var found []models.Delivery
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&found).Error; err != nil {
		return nil, err
	}

	list := &DeliveryList{}
	if len(found) > normalized {
		found = found[:normalized]
		last := found[len(found)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	orderIDs := make([]uuid.UUID, 0, len(found))
	for _, d := range found {
		orderIDs = append(orderIDs, d.OrderID)
	}
	headers, err := r.orderHeaders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	list.Deliveries = make([]DeliverySummary, 0, len(found))
	for _, d := range found {
		summary := DeliverySummary{
			ID:           d.ID,
			OrderID:      d.OrderID,
			Status:       d.Status,
			AssignedDate: d.AssignedDate,
			SpecialNotes: d.SpecialNotes,
			Vehicle:      d.Vehicle,
		}
		if header, ok := headers[d.OrderID]; ok {
			summary.OrderNumber = header.OrderNumber
			summary.DeliveryCity = header.DeliveryCity
		}
		list.Deliveries = append(list.Deliveries, summary)
	}
	return list, nil
}

type orderHeader struct {
	ID           uuid.UUID
	OrderNumber  string
	DeliveryCity string
}

func (r *repository) orderHeaders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]orderHeader, error) {
	if len(orderIDs) == 0 {
		return map[uuid.UUID]orderHeader{}, nil
	}

	var rows []orderHeader
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("id, order_number, delivery_city").
		Where("id IN ?", orderIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	headers := make(map[uuid.UUID]orderHeader, len(rows))
	for _, row := range rows {
		headers[row.ID] = row
	}
	return headers, nil
}

func (r *repository) UpdateStatus(ctx context.Context, deliveryID uuid.UUID, status enums.DeliveryStatus, notes *string) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if notes != nil {
		updates["special_notes"] = *notes
	}
	return r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("id = ?", deliveryID).
		Updates(updates).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) CountFarmerItems(ctx context.Context, orderID, farmerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ? AND farmer_id = ?", orderID, farmerID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountContributingFarmers(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Distinct("farmer_id").
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("order_status", status).Error
}
