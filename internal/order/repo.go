package order

import (
	"context"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/types/order"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *order.Order) error
	ListOrders(ctx context.Context) ([]order.Order, error)
	ListOrdersByStatus(ctx context.Context, status order.Status) ([]order.Order, error)
	FindOrderByID(ctx context.Context, id string) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error
	DeleteOrder(ctx context.Context, id string) error
}

// Redeemer consumes one use of a referral code during checkout.
type Redeemer interface {
	Redeem(ctx context.Context, code string) (float64, error)
}

// RatesReader resolves the per-province shipping fee table.
type RatesReader interface {
	ShippingRates(ctx context.Context) (map[string]float64, error)
}

// Notifier delivers the outbound order notification. Its error is logged by
// the caller, never returned to the client.
type Notifier interface {
	Notify(ctx context.Context, o *order.Order) error
}
