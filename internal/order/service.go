package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/logger"
	"github.com/mkamran-dev/storefront-backend/internal/pricing"
	"github.com/mkamran-dev/storefront-backend/internal/types/order"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrValidation        = errors.New("invalid order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRe = regexp.MustCompile(`^\d{11}$`)
)

type Service struct {
	repo     OrderRepository
	referral Redeemer
	rates    RatesReader
	notifier Notifier
}

func NewService(repo OrderRepository, referral Redeemer, rates RatesReader, notifier Notifier) *Service {
	return &Service{repo: repo, referral: referral, rates: rates, notifier: notifier}
}

func validateCreate(req *order.CreateOrderRequest) error {
	c := req.Customer
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case !emailRe.MatchString(c.Email):
		return fmt.Errorf("%w: invalid email", ErrValidation)
	case !phoneRe.MatchString(c.Phone):
		return fmt.Errorf("%w: phone must be 11 digits", ErrValidation)
	case strings.TrimSpace(c.Address) == "":
		return fmt.Errorf("%w: address is required", ErrValidation)
	case strings.TrimSpace(c.PostalCode) == "":
		return fmt.Errorf("%w: postal code is required", ErrValidation)
	case strings.TrimSpace(c.Province) == "":
		return fmt.Errorf("%w: province is required", ErrValidation)
	case strings.TrimSpace(c.City) == "":
		return fmt.Errorf("%w: city is required", ErrValidation)
	case len(req.Items) == 0:
		return fmt.Errorf("%w: order has no items", ErrValidation)
	}
	for _, it := range req.Items {
		if it.Variant == "" {
			return fmt.Errorf("%w: item variant is required", ErrValidation)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: item price must not be negative", ErrValidation)
		}
	}
	return nil
}

// Create prices and persists a checkout. Referral redemption happens after
// all other lookups so a use is only burnt right before the order write;
// if the write itself fails the use stays consumed (accepted limitation).
func (s *Service) Create(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	var (
		subtotal  float64
		wholesale bool
	)
	for _, it := range req.Items {
		subtotal += it.Price * float64(it.Quantity)
		if it.IsWholesale {
			wholesale = true
		}
	}

	rates, err := s.rates.ShippingRates(ctx)
	if err != nil {
		return nil, err
	}
	shipping := rates[req.Customer.Province]

	var (
		discount float64
		codeRef  *string
	)
	if req.ReferralCode != "" {
		code := strings.ToUpper(strings.TrimSpace(req.ReferralCode))
		discount, err = s.referral.Redeem(ctx, code)
		if err != nil {
			return nil, err
		}
		codeRef = &code
	}

	now := time.Now().UTC()
	o := &order.Order{
		ID:           uuid.NewString(),
		Customer:     req.Customer,
		Items:        req.Items,
		TotalAmount:  pricing.Total(subtotal, discount, shipping),
		Status:       order.StatusAccepted,
		IsWholesale:  wholesale,
		ReferralCode: codeRef,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) ListDelivered(ctx context.Context) ([]order.Order, error) {
	return s.repo.ListOrdersByStatus(ctx, order.StatusDelivered)
}

// UpdateStatus gates every status change through the transition table and
// writes conditionally on the old status. On entering Delivered the webhook
// fires; its failure is logged and swallowed.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus order.Status) (*order.Order, error) {
	if !ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	o, err := s.repo.FindOrderByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateOrderStatus(ctx, id, o.Status, newStatus, now); err != nil {
		if err == sql.ErrNoRows {
			// the order moved under us; the conditional write lost
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	o.Status = newStatus
	o.UpdatedAt = now

	if newStatus == order.StatusDelivered {
		if err := s.notifier.Notify(ctx, o); err != nil {
			logger.Log.Error("webhook notification failed",
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}
	return o, nil
}

// Delete is unconditional here: restricting deletion to terminal orders is
// left to the back-office UI.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteOrder(ctx, id)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	return err
}
