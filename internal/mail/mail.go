// Package mail provides outbound email delivery for verification links.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
	"strings"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over plain SMTP.
type SMTPSender struct {
	addr     string // host:port
	from     string
	username string
	password string
}

// NewSMTPSender creates an SMTP-backed Sender.
// Authentication is skipped when username is empty.
func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	return &SMTPSender{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
	}
}

// Send delivers the message. net/smtp has no context support, so
// cancellation only short-circuits before the dial.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		host := s.addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.username, s.password, host)
	}

	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, msg.To, msg.Subject, msg.Body)

	if err := smtp.SendMail(s.addr, auth, s.from, []string{msg.To}, []byte(payload)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// LogSender logs messages instead of delivering them.
// Used in development when no SMTP server is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a Sender that only logs.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "mail.log_sender")}
}

// Send logs the message and succeeds.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("mail suppressed (no SMTP configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

// VerificationMessage builds the email-verification mail for a user.
// The link points at the verification endpoint with the token attached.
func VerificationMessage(to, verifyBaseURL, token string) Message {
	link := strings.TrimSuffix(verifyBaseURL, "/") + "/emails/verification/?token=" + url.QueryEscape(token)

	body := "Welcome to Mallfront!\n\n" +
		"Please confirm your email address by opening the link below:\n\n" +
		link + "\n\n" +
		"The link expires after a limited time. If you did not request this, ignore this mail.\n"

	return Message{
		To:      to,
		Subject: "Confirm your Mallfront email address",
		Body:    body,
	}
}
