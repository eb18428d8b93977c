package referral

import (
	"context"

	"github.com/mkamran-dev/storefront-backend/internal/types/referral"
)

type ReferralRepository interface {
	CreateCode(ctx context.Context, c *referral.Code) error
	ListCodes(ctx context.Context) ([]referral.Code, error)
	FindCodeByCode(ctx context.Context, code string) (*referral.Code, error)
	RedeemCode(ctx context.Context, code string) (float64, error)
	DeleteCode(ctx context.Context, id int64) error
	SetCodeActive(ctx context.Context, id int64, active bool) error
}
