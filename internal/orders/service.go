package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
	"github.com/farmlink-co/farmlink-backend/pkg/metrics"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ListingFinder is the authoritative listing read the composer revalidates
// against. Satisfied by the listings repository.
type ListingFinder interface {
	FindMany(ctx context.Context, ids []uuid.UUID) ([]models.FarmerListing, error)
}

// PaymentConfirmer settles a card payment and returns the gateway reference.
type PaymentConfirmer interface {
	ConfirmCardPayment(ctx context.Context, paymentMethodID string, amount decimal.Decimal) (string, error)
}

// Service defines the order composer plus the order read models.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*FarmerOrderList, error)
	GetForFarmer(ctx context.Context, farmerID, orderID uuid.UUID) (*FarmerOrderView, error)
	ListAll(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	AdminSetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

// FarmerOrderView is the farmer-scoped order detail: the order header plus
// only that farmer's items and delivery.
type FarmerOrderView struct {
	Order          *models.Order      `json:"order"`
	Items          []models.OrderItem `json:"items"`
	FarmerSubtotal decimal.Decimal    `json:"farmer_subtotal"`
	Delivery       *models.Delivery   `json:"delivery,omitempty"`
}

type service struct {
	repo        Repository
	listings    ListingFinder
	stock       StockKeeper
	tx          txRunner
	payments    PaymentConfirmer
	deliveryFee decimal.Decimal
	metrics     *metrics.OrderMetrics
	logg        *logger.Logger
}

// NewService builds the order composer with the required dependencies.
// The logger may be nil in tests.
func NewService(repo Repository, listings ListingFinder, stock StockKeeper, tx txRunner, payments PaymentConfirmer, deliveryFee decimal.Decimal, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing finder required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock keeper required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment confirmer required")
	}
	if deliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee cannot be negative")
	}
	return &service{
		repo:        repo,
		listings:    listings,
		stock:       stock,
		tx:          tx,
		payments:    payments,
		deliveryFee: deliveryFee,
		metrics:     orderMetrics,
		logg:        logg,
	}, nil
}

// validatedLine is one cart line after revalidation against the current
// listing: the price snapshot is taken here, never from the client.
type validatedLine struct {
	ListingID   uuid.UUID
	FarmerID    uuid.UUID
	CatalogID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Unit        enums.Unit
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	order, err := s.create(ctx, input)
	if err != nil {
		s.metrics.IncFailed(failureReason(err))
		return nil, err
	}
	s.metrics.IncCreated(input.PaymentMethod.String())
	return order, nil
}

func (s *service) create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(input.Delivery.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if strings.TrimSpace(input.Delivery.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery city required")
	}
	if strings.TrimSpace(input.Delivery.PostalCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery postal code required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.PaymentMethod == enums.PaymentMethodCard && strings.TrimSpace(input.PaymentMethodID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id required for card payments")
	}

	lines, err := mergeLines(input.Lines)
	if err != nil {
		return nil, err
	}

	validated, err := s.validateLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range validated {
		subtotal = subtotal.Add(line.Subtotal)
	}
	total := subtotal.Add(s.deliveryFee)

	paymentStatus := enums.PaymentStatusPending
	var paymentRef *string
	if input.PaymentMethod == enums.PaymentMethodCard {
		ref, err := s.payments.ConfirmCardPayment(ctx, input.PaymentMethodID, total)
		if err != nil {
			return nil, err
		}
		paymentStatus = enums.PaymentStatusPaid
		paymentRef = &ref
	}

	order, err := s.persistOrder(ctx, input, validated, subtotal, total, paymentStatus, paymentRef)
	if err == nil {
		return order, nil
	}

	// One internal retry for decrement contention: another order may have
	// consumed stock between validation and the conditional update.
	if _, ok := err.(*stockConflict); !ok {
		s.logOrphanedCharge(ctx, paymentRef, err)
		return nil, err
	}
	if _, err := s.validateLines(ctx, lines); err != nil {
		s.logOrphanedCharge(ctx, paymentRef, err)
		return nil, err
	}
	order, err = s.persistOrder(ctx, input, validated, subtotal, total, paymentStatus, paymentRef)
	if err == nil {
		return order, nil
	}
	conflict, ok := err.(*stockConflict)
	if !ok {
		s.logOrphanedCharge(ctx, paymentRef, err)
		return nil, err
	}
	conflictErr := pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]any{"listing_id": conflict.listingID})
	s.logOrphanedCharge(ctx, paymentRef, conflictErr)
	return nil, conflictErr
}

// logOrphanedCharge records a confirmed card charge whose order never
// persisted, so the payment can be reconciled against the gateway manually.
func (s *service) logOrphanedCharge(ctx context.Context, paymentRef *string, err error) {
	if s.logg == nil || paymentRef == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"payment_ref": *paymentRef})
	s.logg.Error(ctx, "card charge confirmed but order was not persisted", err)
}

func (s *service) validateLines(ctx context.Context, lines []CartLine) ([]validatedLine, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ListingID)
	}

	found, err := s.listings.FindMany(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listings")
	}
	byID := make(map[uuid.UUID]models.FarmerListing, len(found))
	for _, listing := range found {
		byID[listing.ID] = listing
	}

	validated := make([]validatedLine, 0, len(lines))
	for _, line := range lines {
		listing, ok := byID[line.ListingID]
		if !ok || listing.Status != enums.ListingStatusActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "listing unavailable").
				WithDetails(map[string]any{"listing_id": line.ListingID})
		}
		if line.Quantity > listing.QuantityAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{
					"listing_id": line.ListingID,
					"requested":  line.Quantity,
					"available":  listing.QuantityAvailable,
				})
		}

		productName := listing.ID.String()
		if listing.Catalog != nil {
			productName = listing.Catalog.Name
		}
		unitPrice := listing.Price
		validated = append(validated, validatedLine{
			ListingID:   listing.ID,
			FarmerID:    listing.FarmerID,
			CatalogID:   listing.CatalogID,
			ProductName: productName,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Unit:        listing.Unit,
		})
	}
	return validated, nil
}

// stockConflict aborts the transaction when a conditional decrement lands on
// zero rows. It never leaves the package.
type stockConflict struct {
	listingID uuid.UUID
}

func (e *stockConflict) Error() string {
	return fmt.Sprintf("stock conflict on listing %s", e.listingID)
}

func (s *service) persistOrder(ctx context.Context, input CreateOrderInput, validated []validatedLine, subtotal, total decimal.Decimal, paymentStatus enums.PaymentStatus, paymentRef *string) (*models.Order, error) {
	now := time.Now().UTC()
	order := &models.Order{
		OrderNumber:        newOrderNumber(now),
		CustomerID:         input.CustomerID,
		Subtotal:           subtotal,
		DeliveryFee:        s.deliveryFee,
		TotalAmount:        total,
		PaymentMethod:      input.PaymentMethod,
		PaymentStatus:      paymentStatus,
		PaymentRef:         paymentRef,
		OrderStatus:        enums.OrderStatusPending,
		DeliveryAddress:    strings.TrimSpace(input.Delivery.Address),
		DeliveryCity:       strings.TrimSpace(input.Delivery.City),
		DeliveryPostalCode: strings.TrimSpace(input.Delivery.PostalCode),
		OrderDate:          now,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, line := range validated {
			ok, err := s.stock.Decrement(ctx, tx, line.ListingID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &stockConflict{listingID: line.ListingID}
			}
		}

		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(validated))
		for _, line := range validated {
			items = append(items, models.OrderItem{
				OrderID:     created.ID,
				ListingID:   line.ListingID,
				FarmerID:    line.FarmerID,
				CatalogID:   line.CatalogID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Subtotal:    line.Subtotal,
				WeightUnit:  line.Unit,
			})
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	return order, nil
}

func (s *service) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
		}
		if !order.OrderStatus.IsCancellable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		// Cancelled stock goes back on the shelf.
		for _, item := range order.Items {
			if err := s.stock.Restore(ctx, tx, item.ListingID, item.Quantity); err != nil {
				return err
			}
		}

		order.OrderStatus = enums.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *service) ListForFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*FarmerOrderList, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByFarmer(ctx, farmerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer orders")
	}
	return list, nil
}

func (s *service) GetForFarmer(ctx context.Context, farmerID, orderID uuid.UUID) (*FarmerOrderView, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	view := &FarmerOrderView{Order: order, FarmerSubtotal: decimal.Zero}
	for _, item := range order.Items {
		if item.FarmerID == farmerID {
			view.Items = append(view.Items, item)
			view.FarmerSubtotal = view.FarmerSubtotal.Add(item.Subtotal)
		}
	}
	if len(view.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order has no items from this farmer")
	}
	for i := range order.Deliveries {
		if order.Deliveries[i].FarmerID == farmerID {
			view.Delivery = &order.Deliveries[i]
			break
		}
	}

	// The farmer projection never exposes other farmers' items.
	view.Order.Items = nil
	view.Order.Deliveries = nil
	return view, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) AdminSetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !order.OrderStatus.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order cannot move from %s to %s", order.OrderStatus, status))
		}
		if err := repo.UpdateOrderStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.OrderStatus = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// mergeLines folds duplicate listing references into one line and keeps a
// stable listing-id ordering so concurrent composers lock rows in the same
// sequence.
func mergeLines(lines []CartLine) ([]CartLine, error) {
	merged := map[uuid.UUID]int{}
	for _, line := range lines {
		if line.ListingID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line is missing a listing id")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line quantity must be positive").
				WithDetails(map[string]any{"listing_id": line.ListingID})
		}
		merged[line.ListingID] += line.Quantity
	}

	out := make([]CartLine, 0, len(merged))
	for id, qty := range merged {
		out = append(out, CartLine{ListingID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ListingID.String() < out[j].ListingID.String()
	})
	return out, nil
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), suffix)
}

func failureReason(err error) string {
	if coded := pkgerrors.As(err); coded != nil {
		return strings.ToLower(string(coded.Code()))
	}
	return "internal"
}
