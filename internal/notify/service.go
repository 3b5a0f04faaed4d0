package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Service sends operational email alerts to the team.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. With no recipients the
// service is a no-op.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

// NotifyNewLead alerts the team that a new inquiry was captured.
// Failures are returned for logging but must never fail the visitor's
// request.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: no email sender or recipients configured, skipping")
		return nil
	}

	subject := fmt.Sprintf("New lead: %s (%s)", lead.Name, lead.Service)
	body := buildLeadBody(lead)

	var failed []string
	for _, to := range s.recipients {
		if err := s.email.Send(ctx, EmailMessage{
			To:      to,
			Subject: subject,
			Body:    body,
		}); err != nil {
			s.logger.Error("notify: lead alert send failed", "error", err, "to", to)
			failed = append(failed, to)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("notify: lead alert failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func buildLeadBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new inquiry just came in.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	if lead.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", lead.Company)
	}
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	if lead.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", lead.Budget)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", lead.Message)
	return b.String()
}
