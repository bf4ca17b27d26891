package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadConfirmationEmail(ctx context.Context, toEmail, customerName, leadTitle string) error {
	content, err := renderEmailTemplate("lead_confirmation.html", leadConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectLeadConfirmation,
			Heading: "Forespørselen din er mottatt",
		},
		CustomerName: customerName,
		LeadTitle:    leadTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadConfirmation, content)
}

func (s *SMTPSender) SendLeadAssignedEmail(ctx context.Context, toEmail, companyName, leadTitle, category string) error {
	subject := fmt.Sprintf(subjectLeadAssignedFmt, leadTitle)
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: "Nytt oppdrag tildelt",
		},
		CompanyName: companyName,
		LeadTitle:   leadTitle,
		Category:    category,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, companyName, leadTitle, status string) error {
	subject := fmt.Sprintf(subjectFollowUpFmt, leadTitle)
	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: "Oppdrag venter på oppfølging",
		},
		CompanyName: companyName,
		LeadTitle:   leadTitle,
		Status:      status,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}

var _ Sender = (*SMTPSender)(nil)
