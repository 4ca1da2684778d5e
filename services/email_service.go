package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"
)

//go:embed templates/*.html
var emailTemplates embed.FS

// EmailSender delivers a single HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Mailer renders and sends the account emails.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, playerName, code string, ttl time.Duration) error
	SendPasswordReset(ctx context.Context, email, token string, ttl time.Duration) error
}

type EmailService struct {
	sender    EmailSender
	publicURL string
	templates *template.Template
}

func NewEmailService(sender EmailSender, publicURL string) (*EmailService, error) {
	t, err := template.ParseFS(emailTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &EmailService{sender: sender, publicURL: publicURL, templates: t}, nil
}

func (s *EmailService) render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *EmailService) SendVerificationCode(ctx context.Context, email, playerName, code string, ttl time.Duration) error {
	html, err := s.render("verification_email.html", struct {
		PlayerName   string
		Code         string
		ValidMinutes int
	}{playerName, code, int(ttl.Minutes())})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, email, "Your Eulark verification code", html)
}

func (s *EmailService) SendPasswordReset(ctx context.Context, email, token string, ttl time.Duration) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.publicURL, url.QueryEscape(token))
	html, err := s.render("password_reset_email.html", struct {
		Email        string
		ResetLink    string
		ValidMinutes int
	}{email, link, int(ttl.Minutes())})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, email, "Reset your Eulark password", html)
}

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender sends through the Resend HTTP API.
func NewResendSender(apiKey, from string) EmailSender {
	return &resendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type smtpSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) EmailSender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, html string) error {
	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		html + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}

	var client *smtp.Client
	if s.cfg.Port == 465 {
		dialer := &tls.Dialer{Config: tlsConfig}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		client, err = smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if s.cfg.User != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}

type logSender struct {
	logger *slog.Logger
}

// NewLogSender only logs outgoing mail. Used when no provider is configured.
func NewLogSender(logger *slog.Logger) EmailSender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, to, subject, html string) error {
	s.logger.InfoContext(ctx, "Email not sent, no provider configured",
		slog.String("to", to), slog.String("subject", subject), slog.Int("bytes", len(html)))
	return nil
}
