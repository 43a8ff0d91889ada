package mailer

import "github.com/rentnest/visits/pkg/logger"

// DevMailer logs instead of sending. Used when no provider is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (d *DevMailer) SendVisitRequested(toEmail, toName, tenantName, propertyTitle, visitDate, visitTime string) error {
	logger.Info("dev mailer: visit requested",
		"to", toEmail,
		"tenant", tenantName,
		"property", propertyTitle,
		"date", visitDate,
		"time", visitTime,
	)
	return nil
}

func (d *DevMailer) SendVisitStatusChanged(toEmail, toName, propertyTitle, status, visitDate, visitTime string) error {
	logger.Info("dev mailer: visit status changed",
		"to", toEmail,
		"property", propertyTitle,
		"status", status,
		"date", visitDate,
		"time", visitTime,
	)
	return nil
}

var _ Service = (*DevMailer)(nil)
