// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	// SendAlert mails an operational anomaly to the configured recipient.
	SendAlert(subject string, fields map[string]interface{}) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	alertEmail  string
}

func NewEmailService(host string, port int, username, password, senderName, alertEmail string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		alertEmail:  alertEmail,
	}
}

func (s *emailService) SendAlert(subject string, fields map[string]interface{}) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.alertEmail)
	m.SetHeader("Subject", "[Billing] "+subject)
	m.SetBody("text/html", renderAlert(subject, fields))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send alert %q: %w", subject, err)
	}
	return nil
}

func renderAlert(subject string, fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">`)
	fmt.Fprintf(&b, "<h2>%s</h2><table>", html.EscapeString(subject))
	for _, k := range keys {
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>",
			html.EscapeString(k), html.EscapeString(fmt.Sprint(fields[k])))
	}
	b.WriteString("</table></div>")
	return b.String()
}
