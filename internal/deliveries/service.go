package deliveries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db"
	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the delivery assignment workflow.
type Service interface {
	AssignTransport(ctx context.Context, input AssignTransportInput) (*models.Delivery, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Delivery, error)
	ListForTransport(ctx context.Context, transportID uuid.UUID, params pagination.Params) (*DeliveryList, error)
}

type service struct {
	repo     Repository
	vehicles VehicleFinder
	tx       txRunner
}

// NewService builds the delivery workflow service.
func NewService(repo Repository, vehicles VehicleFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deliveries repository required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, vehicles: vehicles, tx: tx}, nil
}

func (s *service) AssignTransport(ctx context.Context, input AssignTransportInput) (*models.Delivery, error) {
	if input.FarmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.TransportID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transport id required")
	}
	if input.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}

	if _, err := s.vehicles.FindProvider(ctx, input.TransportID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transport provider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transport provider")
	}
	vehicle, err := s.vehicles.FindVehicle(ctx, input.VehicleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.TransportID != input.TransportID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle does not belong to transport provider")
	}

	var created *models.Delivery
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.OrderStatus == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
		}

		itemCount, err := repo.CountFarmerItems(ctx, order.ID, input.FarmerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count farmer items")
		}
		if itemCount == 0 {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order has no items from this farmer")
		}

		if _, err := repo.FindByOrderAndFarmer(ctx, order.ID, input.FarmerID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "transport already assigned for this order")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing assignment")
		}

		delivery := &models.Delivery{
			OrderID:      order.ID,
			FarmerID:     input.FarmerID,
			TransportID:  input.TransportID,
			VehicleID:    input.VehicleID,
			Status:       enums.DeliveryStatusAssigned,
			SpecialNotes: input.SpecialNotes,
			AssignedDate: time.Now().UTC(),
		}
		if _, err := repo.Create(ctx, delivery); err != nil {
			// The unique constraint closes the race the pre-check cannot:
			// the same farmer double-submitting concurrently.
			if db.IsUniqueViolation(err, "idx_deliveries_order_farmer") {
				return pkgerrors.New(pkgerrors.CodeConflict, "transport already assigned for this order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery")
		}

		// First assignment confirms the order: at least one farmer has
		// dispatched their contribution.
		if order.OrderStatus == enums.OrderStatusPending {
			if err := repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusConfirmed); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
			}
		}

		delivery.Vehicle = vehicle
		created = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Delivery, error) {
	if input.TransportID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.DeliveryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery status")
	}

	var updated *models.Delivery
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		delivery, err := repo.Find(ctx, input.DeliveryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
		}
		if delivery.TransportID != input.TransportID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "delivery does not belong to transport provider")
		}
		if !delivery.Status.CanAdvanceTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("delivery cannot move from %s to %s", delivery.Status, input.Status))
		}

		if err := repo.UpdateStatus(ctx, delivery.ID, input.Status, input.SpecialNotes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery status")
		}
		delivery.Status = input.Status
		if input.SpecialNotes != nil {
			delivery.SpecialNotes = input.SpecialNotes
		}

		if err := s.syncOrderStatus(ctx, repo, delivery.OrderID); err != nil {
			return err
		}

		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// syncOrderStatus recomputes the order-level status from the delivery rows
// and walks the order forward one legal hop at a time until it matches.
func (s *service) syncOrderStatus(ctx context.Context, repo Repository, orderID uuid.UUID) error {
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.OrderStatus.IsTerminal() {
		return nil
	}

	rows, err := repo.ListByOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order deliveries")
	}
	farmers, err := repo.CountContributingFarmers(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count contributing farmers")
	}

	target := aggregateOrderStatus(order.OrderStatus, rows, farmers)
	current := order.OrderStatus
	for orderRank(current) < orderRank(target) {
		next, ok := current.Next()
		if !ok {
			break
		}
		if err := repo.UpdateOrderStatus(ctx, orderID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance order status")
		}
		current = next
	}
	return nil
}

// orderRank positions a status on the linear forward chain. Cancelled never
// participates in aggregation.
func orderRank(status enums.OrderStatus) int {
	switch status {
	case enums.OrderStatusPending:
		return 0
	case enums.OrderStatusConfirmed:
		return 1
	case enums.OrderStatusProcessing:
		return 2
	case enums.OrderStatusShipped:
		return 3
	case enums.OrderStatusDelivered:
		return 4
	default:
		return -1
	}
}

// aggregateOrderStatus derives the order status implied by its deliveries.
// The order reaches delivered only when every contributing farmer has an
// assignment and all of them have arrived; partial progress keeps the order
// at shipped or processing.
func aggregateOrderStatus(current enums.OrderStatus, rows []models.Delivery, contributingFarmers int64) enums.OrderStatus {
	if len(rows) == 0 {
		return current
	}

	allArrived := true
	anyInTransit := false
	anyPickedUp := false
	for _, d := range rows {
		if !d.Status.ReachedCustomer() {
			allArrived = false
		}
		if d.Status.AtLeast(enums.DeliveryStatusInTransit) {
			anyInTransit = true
		}
		if d.Status.AtLeast(enums.DeliveryStatusPickedUp) {
			anyPickedUp = true
		}
	}

	switch {
	case allArrived && int64(len(rows)) == contributingFarmers:
		return enums.OrderStatusDelivered
	case anyInTransit:
		return enums.OrderStatusShipped
	case anyPickedUp:
		return enums.OrderStatusProcessing
	default:
		return current
	}
}

func (s *service) ListForTransport(ctx context.Context, transportID uuid.UUID, params pagination.Params) (*DeliveryList, error) {
	if transportID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByTransport(ctx, transportID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliveries")
	}
	return list, nil
}
