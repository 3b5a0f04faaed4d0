package leads

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Lead status workflow values. Transitions are unconstrained beyond the
// allowed set; status changes only happen through operator actions.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusClosed    = "closed"
)

// Statuses lists the allowed workflow values in pipeline order.
var Statuses = []string{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusClosed}

// Services lists the consultancy's offerings a lead can inquire about.
var Services = []string{
	"web-development",
	"digital-strategy",
	"seo-optimization",
	"cloud-migration",
	"data-analytics",
	"process-automation",
}

// Budgets lists the enumerated budget ranges.
var Budgets = []string{
	"under-10k",
	"10k-25k",
	"25k-50k",
	"50k-100k",
	"over-100k",
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Lead represents a sales inquiry captured from the marketing site.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Service   string    `json:"service"`
	Budget    string    `json:"budget,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateLeadRequest represents the request body for creating a lead.
// Optional fields are normalized exactly once here, at the boundary.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Budget  string `json:"budget"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
		validation.Field(&r.Service, validation.Required, validation.In(toAny(Services)...).Error("must be a known service offering")),
		validation.Field(&r.Budget, validation.In(toAny(Budgets)...).Error("must be a known budget range")),
		validation.Field(&r.Message, validation.Required, validation.Length(10, 0).Error("must be at least 10 characters")),
	)
}

// UpdateLeadRequest carries a partial update. Nil fields are left
// untouched.
type UpdateLeadRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Service *string `json:"service"`
	Budget  *string `json:"budget"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
}

// Validate validates the partial update request
func (r *UpdateLeadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.By(optionalMatch(emailPattern, "must be a valid email address"))),
		validation.Field(&r.Service, validation.By(optionalIn(Services, "must be a known service offering"))),
		validation.Field(&r.Budget, validation.By(optionalIn(Budgets, "must be a known budget range"))),
		validation.Field(&r.Status, validation.By(optionalIn(Statuses, "must be a known status"))),
	)
}

// Apply merges the partial fields into the lead.
func (r *UpdateLeadRequest) Apply(l *Lead) {
	if r.Name != nil {
		l.Name = *r.Name
	}
	if r.Email != nil {
		l.Email = *r.Email
	}
	if r.Company != nil {
		l.Company = *r.Company
	}
	if r.Phone != nil {
		l.Phone = *r.Phone
	}
	if r.Service != nil {
		l.Service = *r.Service
	}
	if r.Budget != nil {
		l.Budget = *r.Budget
	}
	if r.Message != nil {
		l.Message = *r.Message
	}
	if r.Status != nil {
		l.Status = *r.Status
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func optionalIn(allowed []string, msg string) validation.RuleFunc {
	return func(value any) error {
		s, ok := value.(*string)
		if !ok || s == nil || *s == "" {
			return nil
		}
		for _, a := range allowed {
			if *s == a {
				return nil
			}
		}
		return validation.NewError("validation_in_invalid", msg)
	}
}

func optionalMatch(re *regexp.Regexp, msg string) validation.RuleFunc {
	return func(value any) error {
		s, ok := value.(*string)
		if !ok || s == nil || *s == "" {
			return nil
		}
		if !re.MatchString(*s) {
			return validation.NewError("validation_match_invalid", msg)
		}
		return nil
	}
}
