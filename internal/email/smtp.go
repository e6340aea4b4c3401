package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender реализация Provider для SMTP
type SMTPSender struct {
	config Config
	auth   smtp.Auth
}

// NewSMTPSender создает новый SMTP отправитель
func NewSMTPSender(config Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	sender := &SMTPSender{config: config}

	if config.Username != "" && config.Password != "" {
		sender.auth = smtp.PlainAuth("", config.Username, config.Password, config.SMTPHost)
	}

	return sender, nil
}

// Send отправляет email
func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	message := s.buildMessage(email)
	return s.sendSMTP(email.To, message)
}

// SendNotification отправляет простое текстовое уведомление
func (s *SMTPSender) SendNotification(recipient, subject, message string) error {
	return s.Send(&Email{
		To:      []string{recipient},
		Subject: subject,
		Body:    message,
	})
}

// Validate проверяет конфигурацию
func (s *SMTPSender) Validate() error {
	return s.config.Validate()
}

// Close закрывает провайдер. Соединения создаются на отправку, поэтому no-op.
func (s *SMTPSender) Close() error {
	return nil
}

// buildMessage строит сообщение для SMTP
func (s *SMTPSender) buildMessage(email *Email) []byte {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", s.config.FromName, s.config.FromEmail),
		fmt.Sprintf("To: %s", strings.Join(email.To, ", ")),
		fmt.Sprintf("Subject: %s", email.Subject),
		"MIME-version: 1.0;",
		"Content-Type: multipart/alternative; boundary=\"PROWORK_BOUNDARY\"",
		"",
	}

	var body []string

	if email.Body != "" {
		body = append(body,
			"--PROWORK_BOUNDARY",
			"Content-Type: text/plain; charset=UTF-8",
			"",
			email.Body,
			"",
		)
	}

	if email.HTMLBody != "" {
		body = append(body,
			"--PROWORK_BOUNDARY",
			"Content-Type: text/html; charset=UTF-8",
			"",
			email.HTMLBody,
			"",
		)
	}

	body = append(body, "--PROWORK_BOUNDARY--")

	message := strings.Join(headers, "\r\n") + "\r\n" + strings.Join(body, "\r\n")
	return []byte(message)
}

// sendSMTP отправляет сообщение через SMTP
func (s *SMTPSender) sendSMTP(to []string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var client *smtp.Client
	var err error

	if s.config.UseSSL {
		tlsConfig := &tls.Config{
			ServerName: s.config.SMTPHost,
		}
		conn, dialErr := tls.Dial("tcp", addr, tlsConfig)
		if dialErr != nil {
			return fmt.Errorf("failed to connect via SSL: %w", dialErr)
		}
		client, err = smtp.NewClient(conn, s.config.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
	}
	defer client.Close()

	if s.config.UseTLS && !s.config.UseSSL {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.auth != nil {
		if err = client.Auth(s.auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}
