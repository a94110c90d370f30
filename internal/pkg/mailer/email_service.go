package mailer

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendIntakeSummary(toEmail, sessionID string, answers map[string]string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendIntakeSummary mails the completed project planner record to the
// configured recipient.
func (s *emailService) SendIntakeSummary(toEmail, sessionID string, answers map[string]string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "New Project Planner Submission")

	// Deterministic field order for the summary table
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows strings.Builder
	for _, k := range keys {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding: 5px 15px 5px 0; font-weight: bold;">%s</td><td style="padding: 5px 0;">%s</td></tr>`,
			k, answers[k],
		))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Project Planner Submission</h2>
			<p>Session <code>%s</code> completed the intake flow:</p>
			<table>%s</table>
		</div>
	`, sessionID, rows.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send intake summary to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Intake summary sent to %s\n", toEmail)
	return nil
}
