package settings

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Service resolves the settings in effect.
type Service interface {
	Current(ctx context.Context) (*Settings, error)
}

type service struct {
	repo     Repository
	defaults Settings
	log      *zap.Logger
}

// NewService falls back to defaults when the store has not been configured.
func NewService(repo Repository, defaults Settings, log *zap.Logger) Service {
	return &service{repo: repo, defaults: defaults, log: log}
}

func (s *service) Current(ctx context.Context) (*Settings, error) {
	st, err := s.repo.Get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug("store_settings empty, using configured defaults")
		d := s.defaults
		return &d, nil
	}
	if err != nil {
		return nil, apperr.Persistence("settings_unavailable", "failed to load store settings", err)
	}
	if st.Currency == "" {
		st.Currency = s.defaults.Currency
	}
	return st, nil
}
