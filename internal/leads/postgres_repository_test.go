package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func validCreateRequest() *CreateLeadRequest {
	return &CreateLeadRequest{
		Name:    "Jane Doe",
		Email:   "jane@acme.com",
		Company: "Acme Corp",
		Service: "web-development",
		Budget:  "10k-25k",
		Message: "We need a new marketing site.",
		Source:  "Contact Form",
	}
}

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	now := time.Now().UTC()
	req := validCreateRequest()
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), req.Name, req.Email, req.Company, req.Phone, req.Service, req.Budget, req.Message, StatusNew, req.Source).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	lead, err := repo.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if lead.ID == "" {
		t.Fatal("expected assigned id")
	}
	if lead.Status != StatusNew {
		t.Fatalf("expected default status new, got %s", lead.Status)
	}
	if !lead.CreatedAt.Equal(now) {
		t.Fatalf("expected server timestamp, got %s", lead.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateValidationSkipsDatabase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	req := validCreateRequest()
	req.Email = "not-an-email"
	if _, err := repo.Create(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}

	// No queries expected; any DB touch would be an unmet expectation.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected no database access: %v", err)
	}
}

func TestPostgresListOrdersNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	now := time.Now().UTC()
	cols := []string{"id", "name", "email", "company", "phone", "service", "budget", "message", "status", "source", "created_at", "updated_at"}
	rows := pgxmock.NewRows(cols).
		AddRow("2", "Bob", "bob@globex.com", "", "", "seo-optimization", "", "hello there friend", StatusNew, "Contact Form", now, now).
		AddRow("1", "Jane", "jane@acme.com", "Acme", "", "web-development", "", "hello there friend", StatusQualified, "Contact Form", now.Add(-time.Hour), now)
	mock.ExpectQuery("SELECT (.+) FROM leads ORDER BY created_at DESC").WillReturnRows(rows)

	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != 2 || out[0].ID != "2" {
		t.Fatalf("unexpected leads: %+v", out)
	}
}

func TestPostgresUpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	status := StatusContacted
	mock.ExpectQuery("UPDATE leads SET").
		WithArgs("ghost", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err = repo.Update(context.Background(), "ghost", &UpdateLeadRequest{Status: &status})
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	mock.ExpectExec("DELETE FROM leads").WithArgs("1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := repo.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	mock.ExpectExec("DELETE FROM leads").WithArgs("ghost").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}
