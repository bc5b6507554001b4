package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// AdminService validates and applies catalog mutations.
type AdminService struct {
	store        Store
	log          zerolog.Logger
	now          func() time.Time
	enforcePromo bool
}

type AdminOption func(*AdminService)

// WithPromoRuleEnforced turns the promo pricing rule from an advisory into a
// validation error.
func WithPromoRuleEnforced(enforce bool) AdminOption {
	return func(s *AdminService) { s.enforcePromo = enforce }
}

func WithClock(now func() time.Time) AdminOption {
	return func(s *AdminService) { s.now = now }
}

func NewAdminService(store Store, log zerolog.Logger, opts ...AdminOption) *AdminService {
	s := &AdminService{store: store, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Outcome is a successful mutation plus any advisory rule messages that did
// not block it.
type Outcome struct {
	Product    Product      `json:"product"`
	Advisories []FieldError `json:"advisories,omitempty"`
}

const promoRuleMsg = "Promo price must be lower than the regular price"

func (s *AdminService) validate(form ProductForm, requireID bool) (Product, []FieldError, error) {
	p, errs := form.build(requireID)
	var advisories []FieldError
	if len(errs) == 0 && !PromoBelowPrice(p) {
		fe := FieldError{Field: "promoPrice", Msg: promoRuleMsg}
		if s.enforcePromo {
			errs = append(errs, fe)
		} else {
			advisories = append(advisories, fe)
		}
	}
	if len(errs) > 0 {
		return Product{}, nil, &ValidationError{Fields: errs}
	}
	return p, advisories, nil
}

func (s *AdminService) Create(ctx context.Context, form ProductForm) (Outcome, error) {
	p, advisories, err := s.validate(form, true)
	if err != nil {
		return Outcome{}, err
	}

	exists, err := s.store.Exists(ctx, p.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	if exists {
		return Outcome{}, ErrDuplicateID
	}

	now := s.now().UTC()
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.store.Insert(ctx, p); err != nil {
		s.log.Error().Err(err).Str("product_id", p.ID).Msg("insert product failed")
		return Outcome{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}

	s.logAdvisories(p.ID, advisories)
	s.log.Info().Str("product_id", p.ID).Msg("product created")
	return Outcome{Product: p, Advisories: advisories}, nil
}

// Update replaces every editable field of an existing product. Its active
// state and creation time are kept, and so are its images when the form
// brings none.
func (s *AdminService) Update(ctx context.Context, id string, form ProductForm) (Outcome, error) {
	p, advisories, err := s.validate(form, false)
	if err != nil {
		return Outcome{}, err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Outcome{}, ErrNotFound
		}
		return Outcome{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}

	p.ID = existing.ID
	p.IsActive = existing.IsActive
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()
	if len(form.Images) == 0 {
		p.Images = existing.Images
	}

	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Outcome{}, ErrNotFound
		}
		s.log.Error().Err(err).Str("product_id", id).Msg("update product failed")
		return Outcome{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}

	s.logAdvisories(p.ID, advisories)
	s.log.Info().Str("product_id", p.ID).Msg("product updated")
	return Outcome{Product: p, Advisories: advisories}, nil
}

// Delete is a soft delete: the product stops being listed but keeps its id.
// Deleting an already inactive product succeeds again.
func (s *AdminService) Delete(ctx context.Context, id string) error {
	if err := s.store.Deactivate(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error().Err(err).Str("product_id", id).Msg("deactivate product failed")
		return fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	s.log.Info().Str("product_id", id).Msg("product deactivated")
	return nil
}

// Get returns any product, active or not, for editing.
func (s *AdminService) Get(ctx context.Context, id string) (Product, error) {
	return s.store.Get(ctx, id)
}

func (s *AdminService) logAdvisories(id string, advisories []FieldError) {
	for _, a := range advisories {
		s.log.Warn().Str("product_id", id).Str("field", a.Field).Msg(a.Msg)
	}
}
