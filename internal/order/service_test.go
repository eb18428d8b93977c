package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/referral"
	"github.com/mkamran-dev/storefront-backend/internal/types/order"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct {
	createOrderFn        func(ctx context.Context, o *order.Order) error
	listOrdersFn         func(ctx context.Context) ([]order.Order, error)
	listOrdersByStatusFn func(ctx context.Context, status order.Status) ([]order.Order, error)
	findOrderByIDFn      func(ctx context.Context, id string) (*order.Order, error)
	updateOrderStatusFn  func(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error
	deleteOrderFn        func(ctx context.Context, id string) error
}

func (m *mockRepo) CreateOrder(ctx context.Context, o *order.Order) error {
	return m.createOrderFn(ctx, o)
}
func (m *mockRepo) ListOrders(ctx context.Context) ([]order.Order, error) {
	return m.listOrdersFn(ctx)
}
func (m *mockRepo) ListOrdersByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	return m.listOrdersByStatusFn(ctx, status)
}
func (m *mockRepo) FindOrderByID(ctx context.Context, id string) (*order.Order, error) {
	return m.findOrderByIDFn(ctx, id)
}
func (m *mockRepo) UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
	return m.updateOrderStatusFn(ctx, id, from, to, updatedAt)
}
func (m *mockRepo) DeleteOrder(ctx context.Context, id string) error {
	return m.deleteOrderFn(ctx, id)
}

type mockRedeemer struct {
	redeemFn func(ctx context.Context, code string) (float64, error)
	calls    int
}

func (m *mockRedeemer) Redeem(ctx context.Context, code string) (float64, error) {
	m.calls++
	return m.redeemFn(ctx, code)
}

type mockRates struct {
	rates map[string]float64
}

func (m *mockRates) ShippingRates(ctx context.Context) (map[string]float64, error) {
	return m.rates, nil
}

type mockNotifier struct {
	err    error
	calls  int
	orders []*order.Order
}

func (m *mockNotifier) Notify(ctx context.Context, o *order.Order) error {
	m.calls++
	m.orders = append(m.orders, o)
	return m.err
}

func validRequest() *order.CreateOrderRequest {
	return &order.CreateOrderRequest{
		Customer: order.Customer{
			Name:       "Ali Khan",
			Email:      "ali@example.com",
			Phone:      "03001234567",
			Address:    "House 12, Street 4",
			PostalCode: "54000",
			Province:   "Punjab",
			City:       "Lahore",
		},
		Items: []order.CartItem{
			{Variant: "10g", Price: 500, Quantity: 2},
		},
	}
}

func newTestService(repo *mockRepo, redeemer *mockRedeemer, notifier *mockNotifier) *Service {
	rates := &mockRates{rates: map[string]float64{"Punjab": 199, "Sindh": 299}}
	return NewService(repo, redeemer, rates, notifier)
}

func TestCreateComputesTotal(t *testing.T) {
	var created *order.Order
	repo := &mockRepo{
		createOrderFn: func(ctx context.Context, o *order.Order) error {
			created = o
			return nil
		},
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	o, err := svc.Create(context.Background(), validRequest())
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, order.StatusAccepted, o.Status)
	// 2*500 + 199 shipping
	assert.Equal(t, 1199.0, o.TotalAmount)
	assert.Nil(t, o.ReferralCode)
}

func TestCreateAppliesDiscount(t *testing.T) {
	repo := &mockRepo{
		createOrderFn: func(ctx context.Context, o *order.Order) error { return nil },
	}
	redeemer := &mockRedeemer{
		redeemFn: func(ctx context.Context, code string) (float64, error) {
			assert.Equal(t, "SAVE10", code)
			return 10, nil
		},
	}
	svc := newTestService(repo, redeemer, &mockNotifier{})

	req := validRequest()
	req.ReferralCode = " save10 "
	o, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
	// 1000 - 100 + 199
	assert.Equal(t, 1099.0, o.TotalAmount)
	assert.NotNil(t, o.ReferralCode)
	assert.Equal(t, "SAVE10", *o.ReferralCode)
	assert.Equal(t, 1, redeemer.calls)
}

func TestCreateUnknownProvinceShipsFree(t *testing.T) {
	repo := &mockRepo{
		createOrderFn: func(ctx context.Context, o *order.Order) error { return nil },
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	req := validRequest()
	req.Customer.Province = "Atlantis"
	req.Items = []order.CartItem{{Variant: "10g", Price: 500, Quantity: 1}}
	o, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, 500.0, o.TotalAmount)
}

func TestCreateExpiredCodeDoesNotPersist(t *testing.T) {
	var persisted bool
	repo := &mockRepo{
		createOrderFn: func(ctx context.Context, o *order.Order) error {
			persisted = true
			return nil
		},
	}
	redeemer := &mockRedeemer{
		redeemFn: func(ctx context.Context, code string) (float64, error) {
			return 0, referral.ErrCodeExpired
		},
	}
	svc := newTestService(repo, redeemer, &mockNotifier{})

	req := validRequest()
	req.ReferralCode = "DONE"
	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, referral.ErrCodeExpired, err)
	assert.False(t, persisted)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockRedeemer{}, &mockNotifier{})

	cases := map[string]func(*order.CreateOrderRequest){
		"missing name":   func(r *order.CreateOrderRequest) { r.Customer.Name = "" },
		"bad email":      func(r *order.CreateOrderRequest) { r.Customer.Email = "not-an-email" },
		"short phone":    func(r *order.CreateOrderRequest) { r.Customer.Phone = "12345" },
		"no items":       func(r *order.CreateOrderRequest) { r.Items = nil },
		"zero quantity":  func(r *order.CreateOrderRequest) { r.Items[0].Quantity = 0 },
		"negative price": func(r *order.CreateOrderRequest) { r.Items[0].Price = -1 },
		"no province":    func(r *order.CreateOrderRequest) { r.Customer.Province = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateWholesaleFlag(t *testing.T) {
	repo := &mockRepo{
		createOrderFn: func(ctx context.Context, o *order.Order) error { return nil },
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	req := validRequest()
	req.Items = append(req.Items, order.CartItem{Variant: "1kg", Price: 9000, Quantity: 1, IsWholesale: true})
	o, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
	assert.True(t, o.IsWholesale)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	var wrote bool
	repo := &mockRepo{
		findOrderByIDFn: func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{ID: id, Status: order.StatusAccepted}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
			wrote = true
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockRedeemer{}, notifier)

	_, err := svc.UpdateStatus(context.Background(), "o1", order.StatusDelivered)
	assert.Equal(t, ErrInvalidTransition, err)
	assert.False(t, wrote, "an illegal transition must not touch the store")
	assert.Equal(t, 0, notifier.calls)
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := &mockRepo{
		findOrderByIDFn: func(ctx context.Context, id string) (*order.Order, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	_, err := svc.UpdateStatus(context.Background(), "missing", order.StatusCancelled)
	assert.Equal(t, ErrOrderNotFound, err)
}

func TestUpdateStatusDeliveredNotifiesOnce(t *testing.T) {
	repo := &mockRepo{
		findOrderByIDFn: func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{ID: id, Status: order.StatusInDelivery, TotalAmount: 1099}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
			assert.Equal(t, order.StatusInDelivery, from)
			assert.Equal(t, order.StatusDelivered, to)
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockRedeemer{}, notifier)

	o, err := svc.UpdateStatus(context.Background(), "o1", order.StatusDelivered)
	assert.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "o1", notifier.orders[0].ID)
}

func TestUpdateStatusNotifierFailureIsSwallowed(t *testing.T) {
	repo := &mockRepo{
		findOrderByIDFn: func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{ID: id, Status: order.StatusInDelivery}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
			return nil
		},
	}
	notifier := &mockNotifier{err: errors.New("endpoint down")}
	svc := newTestService(repo, &mockRedeemer{}, notifier)

	o, err := svc.UpdateStatus(context.Background(), "o1", order.StatusDelivered)
	assert.NoError(t, err, "webhook failure must not fail the status update")
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, 1, notifier.calls)
}

func TestUpdateStatusNonDeliveredDoesNotNotify(t *testing.T) {
	repo := &mockRepo{
		findOrderByIDFn: func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{ID: id, Status: order.StatusAccepted}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockRedeemer{}, notifier)

	_, err := svc.UpdateStatus(context.Background(), "o1", order.StatusReadyForDelivery)
	assert.NoError(t, err)
	assert.Equal(t, 0, notifier.calls)
}

func TestUpdateStatusLostRace(t *testing.T) {
	repo := &mockRepo{
		findOrderByIDFn: func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{ID: id, Status: order.StatusInDelivery}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
			return sql.ErrNoRows
		},
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	_, err := svc.UpdateStatus(context.Background(), "o1", order.StatusDelivered)
	assert.Equal(t, ErrInvalidTransition, err)
}

func TestDeleteUnconditional(t *testing.T) {
	var deleted string
	repo := &mockRepo{
		deleteOrderFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	// non-terminal orders delete fine at this layer
	assert.NoError(t, svc.Delete(context.Background(), "o1"))
	assert.Equal(t, "o1", deleted)
}

func TestDeleteNotFound(t *testing.T) {
	repo := &mockRepo{
		deleteOrderFn: func(ctx context.Context, id string) error {
			return sql.ErrNoRows
		},
	}
	svc := newTestService(repo, &mockRedeemer{}, &mockNotifier{})

	assert.Equal(t, ErrOrderNotFound, svc.Delete(context.Background(), "missing"))
}
