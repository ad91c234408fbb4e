package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"condoku_backend/internals/features/delinquency/service"
	helperAuth "condoku_backend/internals/helpers/auth"
)

// ScopedReaders opens one transaction per caller so that Supabase row-level security
// sees the caller's claims instead of the server's credentials.
type ScopedReaders struct {
	DB         *gorm.DB
	SwitchRole bool
}

func NewScopedReaders(db *gorm.DB, switchRole bool) *ScopedReaders {
	return &ScopedReaders{DB: db, SwitchRole: switchRole}
}

func (s *ScopedReaders) WithCaller(ctx context.Context, caller *helperAuth.Caller, fn func(service.SlipReader) error) error {
	if caller == nil {
		return errors.New("scoped reader without caller")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.SwitchRole && caller.Role == helperAuth.RoleAuthenticated {
			claims, err := caller.ClaimsJSON()
			if err != nil {
				return err
			}
			if err := tx.Exec("SELECT set_config('request.jwt.claims', ?, true)", claims).Error; err != nil {
				return err
			}
			if err := tx.Exec("SET LOCAL ROLE authenticated").Error; err != nil {
				return err
			}
		}
		return fn(NewSlipRepository(tx))
	})
}
