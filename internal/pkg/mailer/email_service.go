// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendRenewalReminder(toEmail string, renewals []RenewalLine) error
}

// RenewalLine is one row of the reminder digest
type RenewalLine struct {
	ProductName string
	PlanName    string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendRenewalReminder(toEmail string, renewals []RenewalLine) error {
	if len(renewals) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	if len(renewals) == 1 {
		m.SetHeader("Subject", fmt.Sprintf("%s renews soon", renewals[0].ProductName))
	} else {
		m.SetHeader("Subject", fmt.Sprintf("%d subscriptions renew soon", len(renewals)))
	}
	m.SetBody("text/html", renderReminder(renewals))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send renewal reminder to %s: %w", toEmail, err)
	}
	return nil
}

func renderReminder(renewals []RenewalLine) string {
	var rows strings.Builder
	for _, r := range renewals {
		name := html.EscapeString(r.ProductName)
		if r.PlanName != "" {
			name += " &middot; " + html.EscapeString(r.PlanName)
		}
		fmt.Fprintf(&rows, `
				<tr>
					<td style="padding: 6px 12px;">%s</td>
					<td style="padding: 6px 12px;">%s</td>
					<td style="padding: 6px 12px; text-align: right;">%s %s</td>
				</tr>`, name, r.Date.Format("Jan 2, 2006"), r.Amount.StringFixed(2), html.EscapeString(r.Currency))
	}

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Upcoming renewals</h2>
			<p>These subscriptions will bill you soon:</p>
			<table style="border-collapse: collapse;">%s
			</table>
			<p>Pause or cancel them in SubTracker if you no longer need them.</p>
		</div>
	`, rows.String())
}
