package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rentnest/visits/internal/platform/mailer"
	"github.com/rentnest/visits/internal/repository"
	"github.com/rentnest/visits/pkg/config"
	"github.com/rentnest/visits/pkg/database"
	"github.com/rentnest/visits/pkg/events"
	"github.com/rentnest/visits/pkg/logger"
)

const queueGroup = "notifier"

// The notifier consumes visit lifecycle events and emails the party who did
// not trigger the change: owners learn about new requests, tenants learn
// about status changes. Runs as a queue group so multiple instances share
// the stream without duplicate sends.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	w := &worker{
		users:      repository.NewUserRepository(pool),
		properties: repository.NewPropertyRepository(pool),
		mail:       buildMailer(cfg),
	}

	if err := eventBus.QueueSubscribe(events.VisitRequested, queueGroup, w.onVisitRequested); err != nil {
		logger.Error("Failed to subscribe", "subject", events.VisitRequested, "error", err)
		os.Exit(1)
	}
	if err := eventBus.QueueSubscribe(events.VisitStatusChanged, queueGroup, w.onVisitStatusChanged); err != nil {
		logger.Error("Failed to subscribe", "subject", events.VisitStatusChanged, "error", err)
		os.Exit(1)
	}

	logger.Info("Notifier started", "queue", queueGroup)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down notifier...")
}

func buildMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPass,
		cfg.Email.SMTPUseTLS,
	)
}

type worker struct {
	users      repository.UserRepository
	properties repository.PropertyRepository
	mail       mailer.Service
}

func (w *worker) onVisitRequested(msg *events.Message) {
	var ev events.VisitRequestedEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("Bad visit.requested payload", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	owner, err := w.users.GetByID(ctx, ev.OwnerID)
	if err != nil || owner == nil {
		logger.Error("Owner lookup failed for visit event", "owner_id", ev.OwnerID, "error", err)
		return
	}

	err = w.mail.SendVisitRequested(
		owner.Email,
		owner.FullName,
		ev.TenantName,
		ev.PropertyTitle,
		ev.VisitDate.Format("2006-01-02"),
		ev.VisitTime,
	)
	if err != nil {
		logger.Error("Visit-requested email failed", "visit_id", ev.VisitID, "error", err)
		return
	}

	logger.Info("Visit-requested email sent", "visit_id", ev.VisitID, "owner_id", ev.OwnerID)
}

func (w *worker) onVisitStatusChanged(msg *events.Message) {
	var ev events.VisitStatusChangedEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("Bad visit.status_changed payload", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenant, err := w.users.GetByID(ctx, ev.TenantID)
	if err != nil || tenant == nil {
		logger.Error("Tenant lookup failed for visit event", "tenant_id", ev.TenantID, "error", err)
		return
	}

	title := "your booked property"
	if property, err := w.properties.GetByID(ctx, ev.PropertyID); err == nil && property != nil {
		title = property.Title
	}

	err = w.mail.SendVisitStatusChanged(
		tenant.Email,
		tenant.FullName,
		title,
		ev.NewStatus,
		ev.VisitDate.Format("2006-01-02"),
		ev.VisitTime,
	)
	if err != nil {
		logger.Error("Status-changed email failed", "visit_id", ev.VisitID, "error", err)
		return
	}

	logger.Info("Status-changed email sent", "visit_id", ev.VisitID, "tenant_id", ev.TenantID)
}
