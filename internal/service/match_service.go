package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rentnest/visits/internal/domain"
	"github.com/rentnest/visits/internal/repository"
)

// MatchService ranks the tenants who booked a visit to a property against
// the owner's declared preferences for it.
type MatchService struct {
	properties  repository.PropertyRepository
	preferences repository.PreferenceRepository
	visits      repository.VisitRepository
}

func NewMatchService(
	properties repository.PropertyRepository,
	preferences repository.PreferenceRepository,
	visits repository.VisitRepository,
) *MatchService {
	return &MatchService{
		properties:  properties,
		preferences: preferences,
		visits:      visits,
	}
}

// RankResult is a property's tenant list ranked by preference fit.
type RankResult struct {
	Property *domain.Property
	Total    int
	Entries  []domain.RankedTenant
}

// RankedTenants resolves a property by its public listing code, scores each
// tenant with a booked visit against the owner's preference profile, and
// returns the list sorted by descending score. Ties keep creation order.
// A property with preferences but no visits yields an empty list, not an
// error; a booking whose tenant no longer resolves is dropped entirely.
func (s *MatchService) RankedTenants(ctx context.Context, pid string) (*RankResult, error) {
	property, err := s.properties.GetByPID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("resolve property: %w", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotFound
	}

	preference, err := s.preferences.GetByProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve preferences: %w", err)
	}
	if preference == nil {
		return nil, domain.ErrPreferencesNotSet
	}

	visits, err := s.visits.ListForProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("list property visits: %w", err)
	}

	entries := make([]domain.RankedTenant, 0, len(visits))
	for _, v := range visits {
		if v.Tenant == nil {
			// Dangling tenant reference: a data-integrity gap, not a
			// low-fit candidate.
			continue
		}
		entries = append(entries, domain.RankedTenant{
			Tenant:    v.Tenant,
			VisitDate: v.VisitDate,
			VisitTime: v.VisitTime,
			Score:     preference.Score(v.Tenant),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return &RankResult{
		Property: property,
		Total:    len(entries),
		Entries:  entries,
	}, nil
}

// TenantList is a property's unscored visitor list.
type TenantList struct {
	Property *domain.Property
	Total    int
	Tenants  []domain.User
}

// TenantsForProperty returns the distinct tenants with a booked visit for
// the property, earliest visit first. A tenant visiting twice appears once.
func (s *MatchService) TenantsForProperty(ctx context.Context, pid string) (*TenantList, error) {
	property, err := s.properties.GetByPID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("resolve property: %w", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotFound
	}

	visits, err := s.visits.ListForProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("list property visits: %w", err)
	}

	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].VisitDate.Before(visits[j].VisitDate)
	})

	seen := make(map[int64]bool)
	tenants := make([]domain.User, 0, len(visits))
	for _, v := range visits {
		if v.Tenant == nil || seen[v.Tenant.ID] {
			continue
		}
		seen[v.Tenant.ID] = true
		tenants = append(tenants, *v.Tenant)
	}

	return &TenantList{
		Property: property,
		Total:    len(tenants),
		Tenants:  tenants,
	}, nil
}
