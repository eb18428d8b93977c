package referral

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/types/referral"
)

var (
	ErrCodeNotFound = errors.New("referral code not found")
	ErrCodeExpired  = errors.New("referral code expired")
	ErrCodeExists   = errors.New("referral code already exists")
	ErrInvalidCode  = errors.New("invalid referral code")
)

type Service struct {
	repo ReferralRepository
}

func NewService(r ReferralRepository) *Service {
	return &Service{repo: r}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Verify checks a code without consuming a use. Inactive codes look the same
// as missing ones to the caller.
func (s *Service) Verify(ctx context.Context, code string) (float64, error) {
	c, err := s.repo.FindCodeByCode(ctx, normalize(code))
	if err == sql.ErrNoRows {
		return 0, ErrCodeNotFound
	}
	if err != nil {
		return 0, err
	}
	if !c.IsActive {
		return 0, ErrCodeNotFound
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return 0, ErrCodeExpired
	}
	return c.DiscountPercentage, nil
}

// Redeem consumes one use. The cap check and the increment happen in a single
// conditional update in the repository; a zero-row result is classified here
// as unknown/inactive versus exhausted. A consumed use is never given back.
func (s *Service) Redeem(ctx context.Context, code string) (float64, error) {
	norm := normalize(code)
	discount, err := s.repo.RedeemCode(ctx, norm)
	if err == nil {
		return discount, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	c, err := s.repo.FindCodeByCode(ctx, norm)
	if err == sql.ErrNoRows {
		return 0, ErrCodeNotFound
	}
	if err != nil {
		return 0, err
	}
	if !c.IsActive {
		return 0, ErrCodeNotFound
	}
	return 0, ErrCodeExpired
}

func (s *Service) Create(ctx context.Context, req *referral.CreateCodeRequest) (*referral.Code, error) {
	code := normalize(req.Code)
	if code == "" {
		return nil, ErrInvalidCode
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return nil, ErrInvalidCode
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		return nil, ErrInvalidCode
	}

	if _, err := s.repo.FindCodeByCode(ctx, code); err == nil {
		return nil, ErrCodeExists
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	now := time.Now().UTC()
	c := &referral.Code{
		Code:               code,
		DiscountPercentage: req.DiscountPercentage,
		MaxUses:            req.MaxUses,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateCode(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]referral.Code, error) {
	return s.repo.ListCodes(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteCode(ctx, id)
	if err == sql.ErrNoRows {
		return ErrCodeNotFound
	}
	return err
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	err := s.repo.SetCodeActive(ctx, id, active)
	if err == sql.ErrNoRows {
		return ErrCodeNotFound
	}
	return err
}
