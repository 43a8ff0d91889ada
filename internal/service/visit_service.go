package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rentnest/visits/internal/domain"
	"github.com/rentnest/visits/internal/quota"
	"github.com/rentnest/visits/internal/repository"
	"github.com/rentnest/visits/pkg/events"
	"github.com/rentnest/visits/pkg/logger"
)

// VisitService is the authoritative ledger of tenant-property-owner visit
// bookings. The owner reference on each booking is a snapshot of the
// property's owner taken at creation time.
type VisitService struct {
	visits     repository.VisitRepository
	properties repository.PropertyRepository
	users      repository.UserRepository
	quota      *quota.Evaluator
	publisher  events.Publisher
}

func NewVisitService(
	visits repository.VisitRepository,
	properties repository.PropertyRepository,
	users repository.UserRepository,
	quotaEval *quota.Evaluator,
	publisher events.Publisher,
) *VisitService {
	return &VisitService{
		visits:     visits,
		properties: properties,
		users:      users,
		quota:      quotaEval,
		publisher:  publisher,
	}
}

type CreateVisitInput struct {
	PropertyID int64
	Date       time.Time
	Time       string
	Notes      string
}

func (s *VisitService) Create(ctx context.Context, tenantID int64, in CreateVisitInput) (*domain.Visit, error) {
	tenant, err := s.users.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("resolve property: %w", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotFound
	}

	if _, _, err := s.quota.Reserve(ctx, tenantID, in.Date); err != nil {
		return nil, err
	}

	visit, err := s.visits.Create(ctx, &domain.Visit{
		PropertyID: property.ID,
		OwnerID:    property.OwnerID,
		TenantID:   tenantID,
		VisitDate:  in.Date,
		VisitTime:  in.Time,
		Notes:      in.Notes,
	})
	if err != nil {
		if rerr := s.quota.Release(ctx, tenantID, in.Date); rerr != nil {
			logger.ErrorContext(ctx, "Failed to release booking slot after insert error",
				"error", rerr, "tenant_id", tenantID)
		}
		return nil, fmt.Errorf("create visit: %w", err)
	}

	s.publish(ctx, events.VisitRequested, events.VisitRequestedEvent{
		VisitID:       visit.ID,
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		OwnerID:       visit.OwnerID,
		TenantID:      visit.TenantID,
		TenantName:    tenant.FullName,
		VisitDate:     visit.VisitDate,
		VisitTime:     visit.VisitTime,
		CreatedAt:     visit.CreatedAt,
	})

	return visit, nil
}

func (s *VisitService) ListForTenant(ctx context.Context, tenantID int64) ([]domain.VisitDetail, error) {
	return s.visits.ListForTenant(ctx, tenantID)
}

func (s *VisitService) ListForOwner(ctx context.Context, ownerID int64) ([]domain.VisitDetail, error) {
	return s.visits.ListForOwner(ctx, ownerID)
}

// UpdateStatus overwrites the visit status. Only the tenant or the owner
// party to the booking may do so, and only with one of the four enumerated
// values; anything else leaves the stored status untouched.
func (s *VisitService) UpdateStatus(ctx context.Context, visitID, requesterID int64, rawStatus string) (*domain.Visit, error) {
	status, ok := domain.ParseVisitStatus(rawStatus)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}

	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("resolve visit: %w", err)
	}
	if visit == nil {
		return nil, domain.ErrVisitNotFound
	}
	if !visit.IsParty(requesterID) {
		return nil, domain.ErrNotAuthorized
	}

	updated, err := s.visits.UpdateStatus(ctx, visitID, status)
	if err != nil {
		return nil, fmt.Errorf("update visit status: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrVisitNotFound
	}

	s.publish(ctx, events.VisitStatusChanged, events.VisitStatusChangedEvent{
		VisitID:    updated.ID,
		PropertyID: updated.PropertyID,
		OwnerID:    updated.OwnerID,
		TenantID:   updated.TenantID,
		OldStatus:  string(visit.Status),
		NewStatus:  string(updated.Status),
		VisitDate:  updated.VisitDate,
		VisitTime:  updated.VisitTime,
		ChangedBy:  requesterID,
		ChangedAt:  updated.UpdatedAt,
	})

	return updated, nil
}

// Delete removes a booking permanently. A booking is a leaf record, so
// nothing cascades.
func (s *VisitService) Delete(ctx context.Context, visitID, requesterID int64) error {
	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return fmt.Errorf("resolve visit: %w", err)
	}
	if visit == nil {
		return domain.ErrVisitNotFound
	}
	if !visit.IsParty(requesterID) {
		return domain.ErrNotAuthorized
	}

	deleted, err := s.visits.Delete(ctx, visitID)
	if err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	if !deleted {
		return domain.ErrVisitNotFound
	}

	// The day's slot opens up again; admission counts live bookings only.
	if rerr := s.quota.Release(ctx, visit.TenantID, visit.VisitDate); rerr != nil {
		logger.ErrorContext(ctx, "Failed to release booking slot after delete",
			"error", rerr, "tenant_id", visit.TenantID)
	}

	s.publish(ctx, events.VisitDeleted, events.VisitDeletedEvent{
		VisitID:   visit.ID,
		OwnerID:   visit.OwnerID,
		TenantID:  visit.TenantID,
		DeletedBy: requesterID,
		DeletedAt: time.Now(),
	})

	return nil
}

func (s *VisitService) publish(ctx context.Context, subject string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish visit event", "error", err, "subject", subject)
	}
}
