package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendUrgentAlert(sessionID, patientName, userInput string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	careTeam    string // recipient list, comma separated
}

func NewEmailService(host string, port int, username, password, senderEmail, careTeam string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		careTeam:    careTeam,
	}
}

// SendUrgentAlert notifies the care team about an urgent triage. Fired
// best-effort from the urgent hook; failures are logged by the caller.
func (s *emailService) SendUrgentAlert(sessionID, patientName, userInput string) error {
	recipients := splitRecipients(s.careTeam)
	if len(recipients) == 0 {
		return fmt.Errorf("no care-team recipients configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", fmt.Sprintf("URGENT triage alert - session %s", sessionID))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #C62828;">Urgent triage</h2>
			<p><strong>Session:</strong> %s</p>
			<p><strong>Patient:</strong> %s</p>
			<p><strong>Reported:</strong> %s</p>
			<p>The assistant instructed the patient to seek emergency care. Please follow up.</p>
		</div>
	`, sessionID, patientName, userInput)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send urgent alert: %w", err)
	}
	return nil
}

func splitRecipients(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
