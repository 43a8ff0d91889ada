package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	UseTLS bool
}

func NewSMTPMailer(host string, port int, from, user, pass string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		Host:   strings.TrimSpace(host),
		Port:   port,
		From:   strings.TrimSpace(from),
		User:   strings.TrimSpace(user),
		Pass:   strings.TrimSpace(pass),
		UseTLS: useTLS,
	}
}

func (s *SMTPMailer) SendVisitRequested(toEmail, toName, tenantName, propertyTitle, visitDate, visitTime string) error {
	subject := fmt.Sprintf("New visit request for %s", propertyTitle)
	text := fmt.Sprintf("%s requested a visit to %s on %s at %s.\n\nConfirm or decline from your dashboard.",
		tenantName, propertyTitle, visitDate, visitTime)
	return s.sendEmail(toEmail, toName, subject, text)
}

func (s *SMTPMailer) SendVisitStatusChanged(toEmail, toName, propertyTitle, status, visitDate, visitTime string) error {
	subject := fmt.Sprintf("Your visit to %s is %s", propertyTitle, status)
	text := fmt.Sprintf("Your visit to %s on %s at %s is now %s.", propertyTitle, visitDate, visitTime, status)
	return s.sendEmail(toEmail, toName, subject, text)
}

func (s *SMTPMailer) sendEmail(toEmail, toName, subject, text string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient")
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	if toName != "" {
		fmt.Fprintf(&msg, "To: %s <%s>\r\n", toName, toEmail)
	} else {
		fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(text)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	if !s.UseTLS {
		return smtp.SendMail(addr, auth, s.From, []string{toEmail}, msg.Bytes())
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.Host})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.From); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}
	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg.Bytes()); err != nil {
		return err
	}
	return wc.Close()
}

var _ Service = (*SMTPMailer)(nil)
