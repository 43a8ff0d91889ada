package service

import (
	"context"
	"fmt"

	"github.com/rentnest/visits/internal/domain"
	"github.com/rentnest/visits/internal/repository"
)

// ValidationError marks caller mistakes that should surface as a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreferenceService manages an owner's declared ideal-tenant rules, one
// profile per property.
type PreferenceService struct {
	preferences repository.PreferenceRepository
	properties  repository.PropertyRepository
}

func NewPreferenceService(
	preferences repository.PreferenceRepository,
	properties repository.PropertyRepository,
) *PreferenceService {
	return &PreferenceService{preferences: preferences, properties: properties}
}

type PreferenceInput struct {
	PropertyID    int64
	TenantTypes   []string
	Notes         string
	Gender        *string
	Profession    *string
	MaritalStatus *string
	MinAge        *int
	MaxAge        *int
}

func (in *PreferenceInput) tenantTypes() ([]domain.TenantType, error) {
	if len(in.TenantTypes) == 0 {
		return nil, &ValidationError{Msg: "at least one tenant type is required"}
	}
	types := make([]domain.TenantType, 0, len(in.TenantTypes))
	for _, raw := range in.TenantTypes {
		t, ok := domain.ParseTenantType(raw)
		if !ok {
			return nil, &ValidationError{Msg: fmt.Sprintf("unknown tenant type %q", raw)}
		}
		types = append(types, t)
	}
	return types, nil
}

func (in *PreferenceInput) validateAges() error {
	if (in.MinAge == nil) != (in.MaxAge == nil) {
		return &ValidationError{Msg: "age range requires both min and max"}
	}
	if in.MinAge != nil && *in.MinAge > *in.MaxAge {
		return &ValidationError{Msg: "age range min must not exceed max"}
	}
	return nil
}

func (s *PreferenceService) Create(ctx context.Context, ownerID int64, in PreferenceInput) (*domain.TenantPreference, error) {
	types, err := in.tenantTypes()
	if err != nil {
		return nil, err
	}
	if err := in.validateAges(); err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("resolve property: %w", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotFound
	}
	if property.OwnerID != ownerID {
		return nil, domain.ErrNotAuthorized
	}

	existing, err := s.preferences.GetByProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing preferences: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrPreferenceExists
	}

	return s.preferences.Create(ctx, &domain.TenantPreference{
		OwnerID:       ownerID,
		PropertyID:    property.ID,
		TenantTypes:   types,
		Notes:         in.Notes,
		Gender:        in.Gender,
		Profession:    in.Profession,
		MaritalStatus: in.MaritalStatus,
		MinAge:        in.MinAge,
		MaxAge:        in.MaxAge,
	})
}

func (s *PreferenceService) ListForOwner(ctx context.Context, ownerID int64, propertyID *int64) ([]domain.TenantPreference, error) {
	return s.preferences.ListForOwner(ctx, ownerID, propertyID)
}

func (s *PreferenceService) Update(ctx context.Context, id, ownerID int64, in PreferenceInput) (*domain.TenantPreference, error) {
	types, err := in.tenantTypes()
	if err != nil {
		return nil, err
	}
	if err := in.validateAges(); err != nil {
		return nil, err
	}

	updated, err := s.preferences.Update(ctx, id, ownerID, &domain.TenantPreference{
		TenantTypes:   types,
		Notes:         in.Notes,
		Gender:        in.Gender,
		Profession:    in.Profession,
		MaritalStatus: in.MaritalStatus,
		MinAge:        in.MinAge,
		MaxAge:        in.MaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrPreferencesNotSet
	}
	return updated, nil
}

func (s *PreferenceService) Delete(ctx context.Context, id, ownerID int64) error {
	deleted, err := s.preferences.Delete(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	if !deleted {
		return domain.ErrPreferencesNotSet
	}
	return nil
}
