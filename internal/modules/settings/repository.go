package settings

import "context"

// Repository reads the single store_settings row.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
}
