package order

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusAccepted         Status = "Accepted"
	StatusReadyForDelivery Status = "Ready for Delivery"
	StatusInDelivery       Status = "In Delivery"
	StatusDelivered        Status = "Delivered"
	StatusCancelled        Status = "Cancelled"
)

// Customer is a snapshot of who placed the order, captured at checkout.
// There is no customer account entity behind it.
type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Address2   string `json:"address2,omitempty"`
	PostalCode string `json:"postalCode"`
	Province   string `json:"province"`
	City       string `json:"city"`
}

type CartItem struct {
	Variant     string  `json:"variant"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	IsWholesale bool    `json:"isWholesale,omitempty"`
}

type Order struct {
	ID           string     `db:"id" json:"id"`
	Customer     Customer   `json:"customer"`
	Items        []CartItem `json:"items"`
	TotalAmount  float64    `db:"total_amount" json:"totalAmount"`
	Status       Status     `db:"status" json:"status"`
	IsWholesale  bool       `db:"is_wholesale" json:"isWholesale"`
	ReferralCode *string    `db:"referral_code" json:"referralCode,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateOrderRequest struct {
	Customer     Customer   `json:"customer"`
	Items        []CartItem `json:"items"`
	ReferralCode string     `json:"referralCode,omitempty"`
}

// ItemSummary renders items as "2x 10g; 1x 20g" for the CSV export and the
// webhook payload.
func ItemSummary(items []CartItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Variant))
	}
	return strings.Join(parts, "; ")
}
