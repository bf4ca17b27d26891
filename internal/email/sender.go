// Package email delivers transactional mail for the lead marketplace.
package email

import "context"

// Sender delivers the transactional emails the marketplace sends.
type Sender interface {
	SendLeadConfirmationEmail(ctx context.Context, toEmail, customerName, leadTitle string) error
	SendLeadAssignedEmail(ctx context.Context, toEmail, companyName, leadTitle, category string) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail, companyName, leadTitle, status string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendLeadConfirmationEmail(ctx context.Context, toEmail, customerName, leadTitle string) error {
	return nil
}

func (NoopSender) SendLeadAssignedEmail(ctx context.Context, toEmail, companyName, leadTitle, category string) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, companyName, leadTitle, status string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

var _ Sender = NoopSender{}
