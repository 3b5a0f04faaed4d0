package leads

import (
	"context"
	"errors"
	"time"

	"github.com/apexdigital/leadgen-platform/internal/backend"
)

// Repository defines the interface for lead storage. List returns leads
// ordered by creation time descending.
type Repository interface {
	List(ctx context.Context) ([]*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	Update(ctx context.Context, id string, req *UpdateLeadRequest) (*Lead, error)
	Delete(ctx context.Context, id string) error
}

const collection = "leads"

// BackendRepository stores leads in the hosted backend collection API.
type BackendRepository struct {
	client *backend.Client
}

// NewBackendRepository wraps a configured backend client.
func NewBackendRepository(client *backend.Client) *BackendRepository {
	if client == nil {
		panic("leads: backend client required")
	}
	return &BackendRepository{client: client}
}

// List returns all leads, newest first.
func (r *BackendRepository) List(ctx context.Context) ([]*Lead, error) {
	var out []*Lead
	if err := r.client.List(ctx, collection, "created_at", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*Lead{}
	}
	return out, nil
}

// GetByID fetches a single lead.
func (r *BackendRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	var lead Lead
	if err := r.client.GetByKey(ctx, collection, "id", id, &lead); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// Create inserts a new lead. Field presence is validated here; the remote
// layer assigns id and timestamps.
func (r *BackendRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	record := map[string]any{
		"name":    req.Name,
		"email":   req.Email,
		"company": req.Company,
		"phone":   req.Phone,
		"service": req.Service,
		"budget":  req.Budget,
		"message": req.Message,
		"status":  StatusNew,
		"source":  req.Source,
	}
	var lead Lead
	if err := r.client.Insert(ctx, collection, record, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// Update merges partial fields and stamps updated_at.
func (r *BackendRepository) Update(ctx context.Context, id string, req *UpdateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	partial := map[string]any{"updated_at": time.Now().UTC()}
	setIf(partial, "name", req.Name)
	setIf(partial, "email", req.Email)
	setIf(partial, "company", req.Company)
	setIf(partial, "phone", req.Phone)
	setIf(partial, "service", req.Service)
	setIf(partial, "budget", req.Budget)
	setIf(partial, "message", req.Message)
	setIf(partial, "status", req.Status)

	var lead Lead
	if err := r.client.Update(ctx, collection, id, partial, &lead); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// Delete removes a lead permanently.
func (r *BackendRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return ErrLeadNotFound
		}
		return err
	}
	return nil
}

func setIf(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}
