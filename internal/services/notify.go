package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"foresterswatch/internal/domain"
)

// Badge colors for the availability tiers.
const (
	badgeRed    = "#d9534f"
	badgeOrange = "#f0ad4e"
	badgeGreen  = "#5cb85c"
)

const descriptionLimit = 150

type notificationService struct {
	mailer          domain.Mailer
	renderer        domain.TemplateRenderer
	recipients      []string
	errorRecipients []string
	logger          *slog.Logger
	now             func() time.Time
}

// NewNotificationService returns a Notifier that renders the new-events
// digest and error-report templates and fans them out to the configured
// recipient lists.
func NewNotificationService(mailer domain.Mailer, renderer domain.TemplateRenderer, recipients, errorRecipients []string, logger *slog.Logger) domain.Notifier {
	return &notificationService{
		mailer:          mailer,
		renderer:        renderer,
		recipients:      recipients,
		errorRecipients: errorRecipients,
		logger:          logger,
		now:             time.Now,
	}
}

// SendNewEvents renders one card per event and sends the digest to every
// configured recipient. With no recipients configured it logs and returns
// nil; a digest nobody asked for is not an error.
func (s *notificationService) SendNewEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	if len(s.recipients) == 0 {
		s.logger.Info("no notification recipients configured, skipping digest", "newEvents", len(events))
		return nil
	}

	now := s.now()
	data := &domain.NewEventsEmailData{
		Count: len(events),
		Cards: make([]domain.EventCard, 0, len(events)),
	}
	for _, e := range events {
		data.Cards = append(data.Cards, buildEventCard(e, now))
	}

	subject, htmlBody, textBody, err := s.renderer.Render("new_events", data)
	if err != nil {
		return fmt.Errorf("failed to render new events digest: %w", err)
	}

	var firstErr error
	for _, to := range s.recipients {
		if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
			s.logger.Error("failed to send digest", "to", to, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.logger.Info("digest sent", "to", to, "newEvents", len(events))
	}
	return firstErr
}

// SendErrorReport sends the error alert to the error recipient list. It
// never returns an error: a failure to report a failure is only logged.
func (s *notificationService) SendErrorReport(ctx context.Context, report *domain.ErrorReportEmailData) error {
	if report == nil {
		return nil
	}
	if len(s.errorRecipients) == 0 {
		s.logger.Warn("no error recipients configured, error report not sent",
			"stage", report.Stage, "message", report.Message)
		return nil
	}

	subject, htmlBody, textBody, err := s.renderer.Render("error_report", report)
	if err != nil {
		s.logger.Error("failed to render error report", "err", err)
		return nil
	}
	for _, to := range s.errorRecipients {
		if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
			s.logger.Error("failed to send error report", "to", to, "err", err)
		}
	}
	return nil
}

// buildEventCard pre-formats one event for the digest templates.
func buildEventCard(e domain.Event, now time.Time) domain.EventCard {
	label, color := availabilityBadge(e.ActivityFull, e.OpenSpotsLeft)
	return domain.EventCard{
		Name:        e.EventName,
		DateLine:    formatEventDate(e.StartDate),
		DaysUntil:   daysUntilLabel(e.StartDate, now),
		Location:    locationLine(e.Building),
		Description: truncateDescription(stripHTML(e.Description), descriptionLimit),
		BadgeLabel:  label,
		BadgeColor:  color,
		ImageURL:    e.Image.EventCardImage,
	}
}

// availabilityBadge picks the badge tier from the event's capacity fields.
// ActivityFull wins over the spot count because the source is trusted as
// given.
func availabilityBadge(activityFull bool, openSpotsLeft int) (label, color string) {
	switch {
	case activityFull:
		return "FULLY BOOKED", badgeRed
	case openSpotsLeft <= 3:
		if openSpotsLeft == 1 {
			return "ONLY 1 SPOT LEFT!", badgeOrange
		}
		return fmt.Sprintf("ONLY %d SPOTS LEFT!", openSpotsLeft), badgeOrange
	default:
		return fmt.Sprintf("%d spaces available", openSpotsLeft), badgeGreen
	}
}

// formatEventDate renders the start date for display. An unparsable value
// is shown verbatim rather than dropped.
func formatEventDate(raw string) string {
	t, ok := domain.ParseEventDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Monday, 2 January 2006 at 15:04")
}

// daysUntilLabel renders how far away the event start is, counting in
// whole days rounded up.
func daysUntilLabel(raw string, now time.Time) string {
	t, ok := domain.ParseEventDate(raw)
	if !ok {
		return ""
	}
	days := int(math.Ceil(t.Sub(now).Hours() / 24))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "In 1 day"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// locationLine joins the non-empty building fields with commas.
func locationLine(b domain.Building) string {
	fields := []string{b.Name, b.AddressLine1, b.City, b.StateProvince, b.PostalCode}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, ", ")
}

// stripHTML removes tags and collapses the remaining whitespace. Event
// descriptions arrive as rich text fragments.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// truncateDescription cuts s to limit runes and appends an ellipsis when
// anything was removed.
func truncateDescription(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
