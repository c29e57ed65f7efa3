package events

import (
	"fmt"
	"log"
	"strings"

	"admin-app/config"

	"gopkg.in/gomail.v2"
)

// MailSink emails the superadmin operators when an activation fails. Other
// events are ignored; the audit sink keeps the full history.
type MailSink struct{}

func NewMailSink() *MailSink {
	return &MailSink{}
}

func (s *MailSink) Handle(event interface{}) {
	failed, ok := event.(ModuleActivationFailed)
	if !ok {
		return
	}

	toEmails := config.AdminEmails()
	if len(toEmails) == 0 || config.SMTPHost == "" {
		return
	}

	rollback := "rolled back cleanly"
	if !failed.RolledBack {
		rollback = "ROLLBACK INCOMPLETE, manual recovery required"
	}

	subject := fmt.Sprintf("Module activation failed: %s (tenant %d)", failed.ModuleName, failed.TenantID)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Module activation failed</h3>
				<p>Tenant: <strong>%d</strong></p>
				<p>Module: <strong>%s</strong></p>
				<p>Error: %s</p>
				<p>Completed steps: %s</p>
				<p>Rollback: %s</p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, failed.TenantID, failed.ModuleName, failed.Error, strings.Join(failed.CompletedSteps, ", "), rollback)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SenderEmail)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SenderEmail, config.SenderPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Println("Failed to send notification email:", err)
		return
	}

	log.Println("Notification email sent to:", toEmails)
}
