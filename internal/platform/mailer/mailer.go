package mailer

// Service delivers the visit-lifecycle notification emails.
type Service interface {
	SendVisitRequested(toEmail, toName, tenantName, propertyTitle, visitDate, visitTime string) error
	SendVisitStatusChanged(toEmail, toName, propertyTitle, status, visitDate, visitTime string) error
}
