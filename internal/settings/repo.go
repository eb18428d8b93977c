package settings

import (
	"context"

	"github.com/mkamran-dev/storefront-backend/internal/types/setting"
)

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) ([]setting.Setting, error)
}
