package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(toEmail, toName, studentCode string) error
	SendInvoiceEmail(toEmail, toName, description string, amount float64, dueDate string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(toEmail, message string) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.deliver
	return s
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendWelcomeEmail tells a newly registered student their student code
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName, studentCode string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("studentCode", studentCode).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}

	subject := "Welcome to the Placement Program - " + studentCode
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome aboard!</h2>
				<p>Hello %s,</p>
				<p>Your registration is complete. Your student code is <strong>%s</strong>.</p>
				<p>Please quote this code in all communication with the placement cell.</p>
				<p>Best regards,<br>%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), html.EscapeString(studentCode), html.EscapeString(s.config.FromName))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendInvoiceEmail notifies a student about a new fee invoice
func (s *EmailServiceImpl) SendInvoiceEmail(toEmail, toName, description string, amount float64, dueDate string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Float64("amount", amount).
			Msg("SMTP credentials not configured - invoice email not sent.")
		return nil
	}

	subject := "Fee invoice: " + description
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>An invoice of <strong>%.2f</strong> for %s has been raised. It is due on %s.</p>
				<p>Best regards,<br>%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), amount, html.EscapeString(description), html.EscapeString(dueDate), html.EscapeString(s.config.FromName))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	message := buildMessage(s.config.FromName, s.config.FromEmail, toEmail, subject, htmlBody)
	if err := s.send(toEmail, message); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return err
	}
	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}

// buildMessage renders the headers and body of an HTML message
func buildMessage(fromName, fromEmail, toEmail, subject, htmlBody string) string {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", fromName, fromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		// Header injection guard
		value := strings.NewReplacer("\r", "", "\n", "").Replace(headers[key])
		fmt.Fprintf(&b, "%s: %s\r\n", key, value)
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}

func (s *EmailServiceImpl) deliver(toEmail, message string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
