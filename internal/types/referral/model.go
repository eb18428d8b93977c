package referral

import "time"

// Code is a one-time discount code with an optional usage cap.
// MaxUses == nil means unlimited.
type Code struct {
	ID                 int64     `db:"id" json:"id"`
	Code               string    `db:"code" json:"code"`
	DiscountPercentage float64   `db:"discount_percentage" json:"discountPercentage"`
	MaxUses            *int      `db:"max_uses" json:"maxUses,omitempty"`
	UsedCount          int       `db:"used_count" json:"usedCount"`
	IsActive           bool      `db:"is_active" json:"isActive"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateCodeRequest struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
	MaxUses            *int    `json:"maxUses,omitempty"`
}
