package services

import (
	"fmt"
	"net/smtp"
	"os"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SmtpServer  string
	SmtpPort    string
	SenderEmail string
	SenderPass  string
	SenderName  string
}

// LoadEmailConfig loads email configuration from environment variables
func LoadEmailConfig() (*EmailConfig, error) {
	config := &EmailConfig{
		SmtpServer:  os.Getenv("SMTP_SERVER"),
		SmtpPort:    os.Getenv("SMTP_PORT"),
		SenderEmail: os.Getenv("SMTP_EMAIL"),
		SenderPass:  os.Getenv("SMTP_PASSWORD"),
		SenderName:  os.Getenv("SMTP_SENDER_NAME"),
	}

	if config.SmtpServer == "" {
		config.SmtpServer = "smtp.gmail.com"
	}
	if config.SmtpPort == "" {
		config.SmtpPort = "587"
	}
	if config.SenderName == "" {
		config.SenderName = "UrbanCart"
	}

	if config.SenderEmail == "" {
		return nil, fmt.Errorf("SMTP_EMAIL environment variable not set")
	}
	if config.SenderPass == "" {
		return nil, fmt.Errorf("SMTP_PASSWORD environment variable not set")
	}

	return config, nil
}

// SMTPEmailSender sends transactional mail over plain SMTP.
type SMTPEmailSender struct {
	cfg *EmailConfig
}

func NewSMTPEmailSender(cfg *EmailConfig) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg}
}

// SendOTPEmail sends a one-time code. purpose selects the subject line:
// "verify" for email verification, "reset" for password reset.
func (s *SMTPEmailSender) SendOTPEmail(to, code, purpose string) error {
	subject := "Email Verification - UrbanCart"
	intro := "Thank you for creating an account with UrbanCart. Use the code below to verify your email address:"
	if purpose == "reset" {
		subject = "Password Reset - UrbanCart"
		intro = "We received a request to reset your password. Use the code below to continue:"
	}

	from := fmt.Sprintf("%s <%s>", s.cfg.SenderName, s.cfg.SenderEmail)
	body := fmt.Sprintf(`<html><body>
<p>Hello,</p>
<p>%s</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:4px">%s</p>
<p>This code expires in 10 minutes. Never share it with anyone; UrbanCart staff will never ask for it.</p>
<p>If you did not request this, please ignore this email.</p>
</body></html>`, intro, code)

	message := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + body

	auth := smtp.PlainAuth("", s.cfg.SenderEmail, s.cfg.SenderPass, s.cfg.SmtpServer)
	addr := s.cfg.SmtpServer + ":" + s.cfg.SmtpPort

	if err := smtp.SendMail(addr, auth, s.cfg.SenderEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
