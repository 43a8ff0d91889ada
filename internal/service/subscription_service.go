package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rentnest/visits/internal/domain"
	"github.com/rentnest/visits/internal/repository"
	"github.com/rentnest/visits/pkg/auth"
	"github.com/rentnest/visits/pkg/events"
	"github.com/rentnest/visits/pkg/logger"
)

// SubscriptionService records plan purchases as dated grants. Plans
// themselves are administered elsewhere; this service only reads them.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	publisher     events.Publisher
	now           func() time.Time
}

func NewSubscriptionService(subscriptions repository.SubscriptionRepository, publisher events.Publisher) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		publisher:     publisher,
		now:           time.Now,
	}
}

// Purchase creates a grant binding the party to the plan, starting now.
// The window length comes from the plan; a positive durationDays overrides
// it, and 30 days is the fallback when neither is set.
func (s *SubscriptionService) Purchase(ctx context.Context, partyID int64, role string, planID int64, durationDays int) (*domain.GrantWithPlan, error) {
	plan, err := s.subscriptions.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("resolve plan: %w", err)
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	days := plan.DurationDays
	if durationDays > 0 {
		days = durationDays
	}
	if days <= 0 {
		days = 30
	}

	start := s.now()
	grant := &domain.Grant{
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days),
	}
	switch role {
	case auth.RoleOwner:
		grant.OwnerID = &partyID
	default:
		grant.TenantID = &partyID
	}

	created, err := s.subscriptions.CreateGrant(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("create grant: %w", err)
	}

	if s.publisher != nil {
		event := events.SubscriptionActivatedEvent{
			GrantID:  created.ID,
			PlanID:   plan.ID,
			PlanName: plan.Name,
			PartyID:  partyID,
			EndDate:  created.EndDate,
		}
		if err := s.publisher.Publish(ctx, events.SubscriptionActivated, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish subscription event", "error", err, "grant_id", created.ID)
		}
	}

	return &domain.GrantWithPlan{Grant: *created, Plan: *plan}, nil
}

func (s *SubscriptionService) History(ctx context.Context, partyID int64) ([]domain.GrantWithPlan, error) {
	return s.subscriptions.HistoryFor(ctx, partyID)
}

// Active returns the grant whose date window contains the current moment.
// The stored expiry flag plays no part in the decision.
func (s *SubscriptionService) Active(ctx context.Context, partyID int64) (*domain.GrantWithPlan, error) {
	grant, err := s.subscriptions.ActiveGrantFor(ctx, partyID, s.now())
	if err != nil {
		return nil, fmt.Errorf("resolve active grant: %w", err)
	}
	if grant == nil || !grant.ActiveAt(s.now()) {
		return nil, domain.ErrNoActiveGrant
	}
	return grant, nil
}
