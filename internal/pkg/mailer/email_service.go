package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// FleetGuideItem is one line of the emailed fleet guide.
type FleetGuideItem struct {
	Ordinal   int
	ShipName  string
	Rationale string
}

type IEmailService interface {
	SendFleetGuide(toEmail, userName string, items []FleetGuideItem) error
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

func (s *emailService) SendFleetGuide(toEmail, userName string, items []FleetGuideItem) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Personal Fleet Guide")

	if userName == "" {
		userName = "Citizen"
	}

	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border-bottom: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #ddd;"><strong>%s</strong></td>
				<td style="padding: 8px; border-bottom: 1px solid #ddd;">%s</td>
			</tr>
		`, item.Ordinal, item.ShipName, item.Rationale))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hey %s, here's your fleet!</h2>
			<p>Based on our conversation, these are the ships I picked out for you:</p>
			<table style="border-collapse: collapse; width: 100%%;">
				<tr>
					<th style="padding: 8px; text-align: left;">#</th>
					<th style="padding: 8px; text-align: left;">Ship</th>
					<th style="padding: 8px; text-align: left;">Why it fits</th>
				</tr>
				%s
			</table>
			<p>See you in the verse!</p>
			<p>- Nova</p>
		</div>
	`, userName, rows.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send fleet guide to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Fleet guide sent to %s\n", toEmail)
	return nil
}
