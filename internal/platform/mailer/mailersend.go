package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSend struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSend {
	m := &MailerSend{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSend) send(toEmail, toName, subject, text, html string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or MAILER_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// MailerSend uses X-Message-Id
	return res.Header.Get("X-Message-Id"), nil
}

func (m *MailerSend) SendVisitRequested(toEmail, toName, tenantName, propertyTitle, visitDate, visitTime string) error {
	subject := fmt.Sprintf("New visit request for %s", propertyTitle)
	text := fmt.Sprintf("%s requested a visit to %s on %s at %s. Confirm or decline from your dashboard.",
		tenantName, propertyTitle, visitDate, visitTime)
	html := fmt.Sprintf(`<p><b>%s</b> requested a visit to <b>%s</b>.</p><p>Date: %s<br>Time: %s</p><p>Confirm or decline from your dashboard.</p>`,
		tenantName, propertyTitle, visitDate, visitTime)
	_, err := m.send(toEmail, toName, subject, text, html)
	return err
}

func (m *MailerSend) SendVisitStatusChanged(toEmail, toName, propertyTitle, status, visitDate, visitTime string) error {
	subject := fmt.Sprintf("Your visit to %s is %s", propertyTitle, status)
	text := fmt.Sprintf("Your visit to %s on %s at %s is now %s.", propertyTitle, visitDate, visitTime, status)
	html := fmt.Sprintf(`<p>Your visit to <b>%s</b> on %s at %s is now <b>%s</b>.</p>`,
		propertyTitle, visitDate, visitTime, status)
	_, err := m.send(toEmail, toName, subject, text, html)
	return err
}

var _ Service = (*MailerSend)(nil)
