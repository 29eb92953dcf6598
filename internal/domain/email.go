package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// TemplateRenderer renders email content from a named template with the
// given data.
type TemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventCard is the per-event view model rendered into the new-events
// digest. All fields are pre-formatted by the notification service so the
// templates stay purely presentational.
type EventCard struct {
	Name        string
	DateLine    string
	DaysUntil   string
	Location    string
	Description string
	BadgeLabel  string
	BadgeColor  string
	ImageURL    string
}

// NewEventsEmailData holds data for the new-events digest email.
type NewEventsEmailData struct {
	Subject string
	Count   int
	Cards   []EventCard
}

// ErrorReportEmailData holds data for the error alert email.
type ErrorReportEmailData struct {
	RunID      string
	Stage      string
	OccurredAt string
	Message    string
	StackTrace string
}

// Notifier defines the contract for the two outbound message types.
// Implementations must not fail the run on transport errors for the error
// report path; the watch service decides how digest errors are handled.
type Notifier interface {
	SendNewEvents(ctx context.Context, events []Event) error
	SendErrorReport(ctx context.Context, report *ErrorReportEmailData) error
}
