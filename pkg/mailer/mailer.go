package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
)

// Mailer delivers one-time passcodes to users. Delivery failure must not
// block persistence of the generated code, only notification.
type Mailer interface {
	SendOTP(toEmail, otp string) error
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	password string
}

// New creates an SMTP-backed mailer. When credentials are missing the
// mailer runs in dev mode and only logs the passcode.
func New(cfg *config.SMTPConfig) Mailer {
	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.Email,
		password: cfg.Password,
	}
}

func (m *smtpMailer) SendOTP(toEmail, otp string) error {
	if m.from == "" || m.password == "" {
		logger.Warn("SMTP not configured - OTP not sent via email", map[string]interface{}{
			"email": toEmail,
		})
		return nil
	}

	subject := "Your VitalBites Login OTP"
	body := fmt.Sprintf(`
<html>
<body style="font-family:Segoe UI,Arial,sans-serif;padding:20px;background-color:#f9fafb;">
	<div style="max-width:480px;margin:auto;padding:24px;background:white;border-radius:12px;border:1px solid #eee;">
		<h2 style="color:#ff8800;text-align:center;margin-bottom:16px;">VitalBites Login Verification</h2>
		<p style="font-size:16px;color:#222;text-align:center;">
			Use the following OTP to log in to your VitalBites account:
		</p>
		<div style="font-size:32px;font-weight:bold;letter-spacing:8px;color:#ff8800;text-align:center;margin:24px 0;">
			%s
		</div>
		<p style="font-size:15px;color:#444;text-align:center;">
			This OTP is valid for <b>10 minutes</b>.<br>
			If you did not request this, you can safely ignore this email.
		</p>
	</div>
</body>
</html>
`, otp)

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.from, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(
		m.host+":"+m.port,
		auth,
		m.from,
		[]string{toEmail},
		message,
	); err != nil {
		logger.Error("Failed to send OTP email", err, map[string]interface{}{
			"email": toEmail,
		})
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	logger.Info("OTP email sent successfully", map[string]interface{}{
		"email": toEmail,
	})
	return nil
}
