package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

const (
	KeyWebhookURL    = "webhookUrl"
	KeyShippingRates = "shippingRates"
)

var ErrInvalidKey = errors.New("setting key is required")

// defaultShippingRates is the built-in per-province flat fee table. Stored
// overrides win per province.
var defaultShippingRates = map[string]float64{
	"Punjab":           199,
	"Islamabad":        199,
	"Sindh":            299,
	"KPK":              299,
	"Balochistan":      299,
	"Gilgit Baltistan": 299,
	"AJK":              299,
}

type Service struct {
	repo SettingsRepository
}

func NewService(r SettingsRepository) *Service {
	return &Service{repo: r}
}

// decodeValue parses a stored JSON value, falling back to the raw string for
// values written before everything was JSON-encoded.
func decodeValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func (s *Service) WebhookURL(ctx context.Context) (string, error) {
	raw, err := s.repo.GetSetting(ctx, KeyWebhookURL)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var url string
	if err := json.Unmarshal([]byte(raw), &url); err != nil {
		return raw, nil
	}
	return url, nil
}

func (s *Service) ShippingRates(ctx context.Context) (map[string]float64, error) {
	rates := make(map[string]float64, len(defaultShippingRates))
	for k, v := range defaultShippingRates {
		rates[k] = v
	}

	raw, err := s.repo.GetSetting(ctx, KeyShippingRates)
	if err == sql.ErrNoRows {
		return rates, nil
	}
	if err != nil {
		return nil, err
	}

	var stored map[string]float64
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return rates, nil
	}
	for k, v := range stored {
		rates[k] = v
	}
	return rates, nil
}

// All returns every stored setting with its value decoded for the admin UI.
func (s *Service) All(ctx context.Context) (map[string]any, error) {
	stored, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(stored))
	for _, st := range stored {
		out[st.Key] = decodeValue(st.Value)
	}
	return out, nil
}

// Put upserts one key with its value stored as JSON text.
func (s *Service) Put(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}
	return s.repo.PutSetting(ctx, key, string(value))
}
