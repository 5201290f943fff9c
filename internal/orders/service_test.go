package orders

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmlink-co/farmlink-backend/pkg/db/models"
	"github.com/farmlink-co/farmlink-backend/pkg/enums"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
	"github.com/farmlink-co/farmlink-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order         *models.Order
	createdOrder  *models.Order
	createdItems  []models.OrderItem
	updatedStatus enums.OrderStatus
	createOrder   func(ctx context.Context, order *models.Order) (*models.Order, error)
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createOrder != nil {
		return s.createOrder(ctx, order)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.createdOrder = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	s.createdItems = items
	return nil
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if s.order == nil {
		return nil, nil
	}
	return s.order.Items, nil
}

func (s *stubOrdersRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) ListByFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*FarmerOrderList, error) {
	return &FarmerOrderList{}, nil
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	s.updatedStatus = status
	if s.order != nil && s.order.ID == orderID {
		s.order.OrderStatus = status
	}
	return nil
}

type stubListingFinder struct {
	listings map[uuid.UUID]models.FarmerListing
}

func (s *stubListingFinder) FindMany(ctx context.Context, ids []uuid.UUID) ([]models.FarmerListing, error) {
	var found []models.FarmerListing
	for _, id := range ids {
		if listing, ok := s.listings[id]; ok {
			found = append(found, listing)
		}
	}
	return found, nil
}

type stockCall struct {
	listingID uuid.UUID
	qty       int
}

type stubStockKeeper struct {
	decrements []stockCall
	restores   []stockCall
	failFirst  map[uuid.UUID]int
	denyAll    bool
}

func (s *stubStockKeeper) Decrement(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) (bool, error) {
	s.decrements = append(s.decrements, stockCall{listingID: listingID, qty: qty})
	if s.denyAll {
		return false, nil
	}
	if s.failFirst != nil && s.failFirst[listingID] > 0 {
		s.failFirst[listingID]--
		return false, nil
	}
	return true, nil
}

func (s *stubStockKeeper) Restore(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) error {
	s.restores = append(s.restores, stockCall{listingID: listingID, qty: qty})
	return nil
}

type stubPaymentConfirmer struct {
	ref    string
	err    error
	called int
	amount decimal.Decimal
}

func (s *stubPaymentConfirmer) ConfirmCardPayment(ctx context.Context, paymentMethodID string, amount decimal.Decimal) (string, error) {
	s.called++
	s.amount = amount
	if s.err != nil {
		return "", s.err
	}
	return s.ref, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func activeListing(farmerID uuid.UUID, price string, qty int) models.FarmerListing {
	name := "Tomatoes"
	return models.FarmerListing{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		CatalogID:         uuid.New(),
		Price:             decimal.RequireFromString(price),
		QuantityAvailable: qty,
		Unit:              enums.UnitKilogram,
		Status:            enums.ListingStatusActive,
		Catalog:           &models.CatalogEntry{Name: name},
	}
}

func newComposer(t *testing.T, repo Repository, finder ListingFinder, stock StockKeeper, payments PaymentConfirmer) Service {
	t.Helper()
	svc, err := NewService(repo, finder, stock, stubTxRunner{}, payments, decimal.RequireFromString("250.00"), nil, nil)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if coded.Code() != code {
		t.Fatalf("expected code %s got %s (%v)", code, coded.Code(), err)
	}
	return coded
}

func TestCreateOrderCashOnDelivery(t *testing.T) {
	farmerA := uuid.New()
	farmerB := uuid.New()
	listingA := activeListing(farmerA, "10.00", 20)
	listingB := activeListing(farmerB, "3.50", 8)

	repo := &stubOrdersRepo{}
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{
		listingA.ID: listingA,
		listingB.ID: listingB,
	}}
	stock := &stubStockKeeper{}
	payments := &stubPaymentConfirmer{ref: "pi_unused"}
	svc := newComposer(t, repo, finder, stock, payments)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines: []CartLine{
			{ListingID: listingA.ID, Quantity: 2},
			{ListingID: listingB.ID, Quantity: 4},
		},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}

	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment got %s", order.PaymentStatus)
	}
	if order.OrderStatus != enums.OrderStatusPending {
		t.Fatalf("expected pending order got %s", order.OrderStatus)
	}
	if payments.called != 0 {
		t.Fatal("cash order must not call the payment adapter")
	}
	if len(repo.createdItems) != 2 {
		t.Fatalf("expected 2 order items got %d", len(repo.createdItems))
	}

	wantSubtotal := decimal.RequireFromString("34.00")
	if !order.Subtotal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal 34.00 got %s", order.Subtotal)
	}
	if !order.TotalAmount.Equal(order.Subtotal.Add(order.DeliveryFee)) {
		t.Fatalf("total %s != subtotal %s + fee %s", order.TotalAmount, order.Subtotal, order.DeliveryFee)
	}
	itemSum := decimal.Zero
	for _, item := range repo.createdItems {
		if !item.Subtotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))) {
			t.Fatalf("item subtotal %s != qty*price", item.Subtotal)
		}
		itemSum = itemSum.Add(item.Subtotal)
	}
	if !itemSum.Equal(order.Subtotal) {
		t.Fatalf("item sum %s != order subtotal %s", itemSum, order.Subtotal)
	}
	if len(stock.decrements) != 2 {
		t.Fatalf("expected 2 stock decrements got %d", len(stock.decrements))
	}
	if order.OrderNumber == "" {
		t.Fatal("expected generated order number")
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc := newComposer(t, &stubOrdersRepo{}, &stubListingFinder{}, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateOrderMissingAddress(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 10)
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	svc := newComposer(t, &stubOrdersRepo{}, finder, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 1}},
		Delivery:      DeliveryInfo{City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 5)
	repo := &stubOrdersRepo{}
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{}
	svc := newComposer(t, repo, finder, stock, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 10}},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	requireCode(t, err, pkgerrors.CodeConflict)
	if repo.createdOrder != nil {
		t.Fatal("no order may be persisted on stock failure")
	}
	if len(stock.decrements) != 0 {
		t.Fatal("validation failure must not touch stock")
	}
}

func TestCreateOrderInactiveListing(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 5)
	listing.Status = enums.ListingStatusInactive
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	svc := newComposer(t, &stubOrdersRepo{}, finder, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 1}},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateOrderCardPayment(t *testing.T) {
	listing := activeListing(uuid.New(), "10.00", 10)
	repo := &stubOrdersRepo{}
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	payments := &stubPaymentConfirmer{ref: "pi_123"}
	svc := newComposer(t, repo, finder, &stubStockKeeper{}, payments)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:      uuid.New(),
		Lines:           []CartLine{{ListingID: listing.ID, Quantity: 3}},
		Delivery:        DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod:   enums.PaymentMethodCard,
		PaymentMethodID: "pm_abc",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid got %s", order.PaymentStatus)
	}
	if order.PaymentRef == nil || *order.PaymentRef != "pi_123" {
		t.Fatal("expected payment reference recorded")
	}
	if !payments.amount.Equal(order.TotalAmount) {
		t.Fatalf("charged %s, order total %s", payments.amount, order.TotalAmount)
	}
}

func TestCreateOrderCardWithoutPaymentMethodID(t *testing.T) {
	listing := activeListing(uuid.New(), "10.00", 10)
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	svc := newComposer(t, &stubOrdersRepo{}, finder, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 1}},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCard,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateOrderPaymentFailure(t *testing.T) {
	listing := activeListing(uuid.New(), "10.00", 10)
	repo := &stubOrdersRepo{}
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{}
	payments := &stubPaymentConfirmer{err: pkgerrors.New(pkgerrors.CodePayment, "card declined")}
	svc := newComposer(t, repo, finder, stock, payments)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:      uuid.New(),
		Lines:           []CartLine{{ListingID: listing.ID, Quantity: 1}},
		Delivery:        DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod:   enums.PaymentMethodCard,
		PaymentMethodID: "pm_abc",
	})
	requireCode(t, err, pkgerrors.CodePayment)
	if repo.createdOrder != nil {
		t.Fatal("no order may be persisted on payment failure")
	}
	if len(stock.decrements) != 0 {
		t.Fatal("stock must be untouched on payment failure")
	}
	if payments.called != 1 {
		t.Fatal("payment failures are not retried internally")
	}
}

func TestCreateOrderDecrementContentionRetriesOnce(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 10)
	repo := &stubOrdersRepo{}
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{failFirst: map[uuid.UUID]int{listing.ID: 1}}
	svc := newComposer(t, repo, finder, stock, &stubPaymentConfirmer{})

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 2}},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("expected retry to succeed got %v", err)
	}
	if order == nil {
		t.Fatal("expected created order")
	}
	if len(stock.decrements) != 2 {
		t.Fatalf("expected exactly 2 decrement attempts got %d", len(stock.decrements))
	}
}

func TestCreateOrderDecrementContentionExhausted(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 10)
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{denyAll: true}
	svc := newComposer(t, &stubOrdersRepo{}, finder, stock, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 2}},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	requireCode(t, err, pkgerrors.CodeConflict)
	if len(stock.decrements) != 2 {
		t.Fatalf("expected exactly 2 decrement attempts got %d", len(stock.decrements))
	}
}

func TestCreateOrderRetryFailureSurfacesActualError(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 10)
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{failFirst: map[uuid.UUID]int{listing.ID: 1}}
	repo := &stubOrdersRepo{createOrder: func(ctx context.Context, order *models.Order) (*models.Order, error) {
		return nil, fmt.Errorf("connection reset")
	}}
	svc := newComposer(t, repo, finder, stock, &stubPaymentConfirmer{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		Lines:         []CartLine{{ListingID: listing.ID, Quantity: 2}},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	coded := requireCode(t, err, pkgerrors.CodeDependency)
	if strings.Contains(coded.Error(), "insufficient stock") {
		t.Fatalf("retry failure must not be reported as a stock conflict: %v", coded)
	}
}

func TestCreateOrderLogsChargeRefWhenPersistFails(t *testing.T) {
	listing := activeListing(uuid.New(), "5.00", 10)
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{denyAll: true}
	payments := &stubPaymentConfirmer{ref: "pi_reconcile_me"}

	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: buf})
	svc, err := NewService(&stubOrdersRepo{}, finder, stock, stubTxRunner{}, payments, decimal.RequireFromString("250.00"), nil, logg)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateOrderInput{
		CustomerID:      uuid.New(),
		Lines:           []CartLine{{ListingID: listing.ID, Quantity: 2}},
		Delivery:        DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod:   enums.PaymentMethodCard,
		PaymentMethodID: "pm_abc",
	})
	requireCode(t, err, pkgerrors.CodeConflict)
	if !strings.Contains(buf.String(), "pi_reconcile_me") {
		t.Fatalf("orphaned charge log must carry the payment reference, got: %s", buf.String())
	}
}

func TestCreateOrderMergesDuplicateLines(t *testing.T) {
	listing := activeListing(uuid.New(), "2.00", 10)
	repo := &stubOrdersRepo{}
	finder := &stubListingFinder{listings: map[uuid.UUID]models.FarmerListing{listing.ID: listing}}
	stock := &stubStockKeeper{}
	svc := newComposer(t, repo, finder, stock, &stubPaymentConfirmer{})

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines: []CartLine{
			{ListingID: listing.ID, Quantity: 2},
			{ListingID: listing.ID, Quantity: 3},
		},
		Delivery:      DeliveryInfo{Address: "12 Hill Rd", City: "Arusha", PostalCode: "23100"},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(repo.createdItems) != 1 {
		t.Fatalf("expected merged single item got %d", len(repo.createdItems))
	}
	if repo.createdItems[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5 got %d", repo.createdItems[0].Quantity)
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected subtotal 10.00 got %s", order.Subtotal)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	customerID := uuid.New()
	listingID := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          orderID,
		CustomerID:  customerID,
		OrderStatus: enums.OrderStatusConfirmed,
		Items: []models.OrderItem{
			{OrderID: orderID, ListingID: listingID, Quantity: 3},
		},
	}}
	stock := &stubStockKeeper{}
	svc := newComposer(t, repo, &stubListingFinder{}, stock, &stubPaymentConfirmer{})

	order, err := svc.Cancel(context.Background(), customerID, orderID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.OrderStatus != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled got %s", order.OrderStatus)
	}
	if len(stock.restores) != 1 || stock.restores[0].qty != 3 {
		t.Fatalf("expected stock restore of 3, got %+v", stock.restores)
	}
}

func TestCancelOrderAfterShipping(t *testing.T) {
	customerID := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          orderID,
		CustomerID:  customerID,
		OrderStatus: enums.OrderStatusShipped,
	}}
	svc := newComposer(t, repo, &stubListingFinder{}, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.Cancel(context.Background(), customerID, orderID)
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelOrderWrongCustomer(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          orderID,
		CustomerID:  uuid.New(),
		OrderStatus: enums.OrderStatusPending,
	}}
	svc := newComposer(t, repo, &stubListingFinder{}, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.Cancel(context.Background(), uuid.New(), orderID)
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestAdminSetStatusRejectsSkip(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          orderID,
		CustomerID:  uuid.New(),
		OrderStatus: enums.OrderStatusPending,
	}}
	svc := newComposer(t, repo, &stubListingFinder{}, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.AdminSetStatus(context.Background(), orderID, enums.OrderStatusShipped)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	order, err := svc.AdminSetStatus(context.Background(), orderID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("expected legal transition to succeed got %v", err)
	}
	if order.OrderStatus != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed got %s", order.OrderStatus)
	}
}

func TestGetForFarmerProjectsOwnItems(t *testing.T) {
	farmerID := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          orderID,
		CustomerID:  uuid.New(),
		OrderStatus: enums.OrderStatusConfirmed,
		Items: []models.OrderItem{
			{OrderID: orderID, FarmerID: farmerID, Quantity: 2, Subtotal: decimal.RequireFromString("20.00")},
			{OrderID: orderID, FarmerID: uuid.New(), Quantity: 1, Subtotal: decimal.RequireFromString("7.00")},
		},
	}}
	svc := newComposer(t, repo, &stubListingFinder{}, &stubStockKeeper{}, &stubPaymentConfirmer{})

	view, err := svc.GetForFarmer(context.Background(), farmerID, orderID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected only the farmer's items, got %d", len(view.Items))
	}
	if !view.FarmerSubtotal.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected farmer subtotal 20.00 got %s", view.FarmerSubtotal)
	}
}

func TestGetForFarmerWithoutItems(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:         orderID,
		CustomerID: uuid.New(),
		Items: []models.OrderItem{
			{OrderID: orderID, FarmerID: uuid.New(), Quantity: 1},
		},
	}}
	svc := newComposer(t, repo, &stubListingFinder{}, &stubStockKeeper{}, &stubPaymentConfirmer{})

	_, err := svc.GetForFarmer(context.Background(), uuid.New(), orderID)
	requireCode(t, err, pkgerrors.CodeForbidden)
}
