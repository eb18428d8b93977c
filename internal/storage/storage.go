package storage

import (
	"context"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/types/order"
	"github.com/mkamran-dev/storefront-backend/internal/types/referral"
	"github.com/mkamran-dev/storefront-backend/internal/types/setting"
)

// OrderRepository owns the durable order records.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *order.Order) error
	ListOrders(ctx context.Context) ([]order.Order, error)
	ListOrdersByStatus(ctx context.Context, status order.Status) ([]order.Order, error)
	FindOrderByID(ctx context.Context, id string) (*order.Order, error)
	// UpdateOrderStatus is conditional on the order still being in the from
	// status, so one consistent final status wins if two updates race.
	UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error
	DeleteOrder(ctx context.Context, id string) error
}

// ReferralRepository owns discount codes and their usage accounting.
type ReferralRepository interface {
	CreateCode(ctx context.Context, c *referral.Code) error
	ListCodes(ctx context.Context) ([]referral.Code, error)
	FindCodeByCode(ctx context.Context, code string) (*referral.Code, error)
	// RedeemCode checks the cap and increments used_count in one conditional
	// update. sql.ErrNoRows means no eligible row (absent, inactive or
	// exhausted); the caller classifies which.
	RedeemCode(ctx context.Context, code string) (float64, error)
	DeleteCode(ctx context.Context, id int64) error
	SetCodeActive(ctx context.Context, id int64, active bool) error
}

// SettingsRepository is the generic key/value configuration store.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) ([]setting.Setting, error)
}

// AnalyticsRepository sums delivered order totals.
type AnalyticsRepository interface {
	DeliveredSalesSince(ctx context.Context, from time.Time) (float64, error)
}

// Storage объединяет все репозитории.
type Storage interface {
	OrderRepository
	ReferralRepository
	SettingsRepository
	AnalyticsRepository

	Ping(ctx context.Context) error
	Close() error
}
