package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/apexdigital/leadgen-platform/internal/leads"
)

type mockS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveLeads(t *testing.T) {
	mock := &mockS3{}
	a := NewArchiver(ArchiverConfig{S3: mock, Bucket: "apex-exports"})
	a.now = func() time.Time { return time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC) }

	records := []*leads.Lead{
		{ID: "1", Name: "Ada", Email: "ada@example.com", Service: "web-development", Status: "new"},
	}
	key, err := a.ArchiveLeads(context.Background(), records)
	if err != nil {
		t.Fatalf("ArchiveLeads: %v", err)
	}
	if key != "leads/export-2026-06-15T10-30-00Z.csv" {
		t.Errorf("unexpected key %q", key)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(mock.inputs))
	}
	input := mock.inputs[0]
	if aws.ToString(input.Bucket) != "apex-exports" {
		t.Errorf("bucket = %q", aws.ToString(input.Bucket))
	}
	if aws.ToString(input.ContentType) != "text/csv" {
		t.Errorf("content type = %q", aws.ToString(input.ContentType))
	}

	body, _ := io.ReadAll(input.Body)
	if !strings.Contains(string(body), "ada@example.com") {
		t.Errorf("csv body missing lead row: %s", body)
	}
	if !strings.HasPrefix(string(body), "Name,Email,Company,Phone,Service,Budget,Status,Date") {
		t.Errorf("csv body missing header: %s", body)
	}
}

func TestArchiveLeadsNotConfigured(t *testing.T) {
	a := NewArchiver(ArchiverConfig{})
	if _, err := a.ArchiveLeads(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestArchiveLeadsUploadFailure(t *testing.T) {
	a := NewArchiver(ArchiverConfig{S3: &mockS3{err: errors.New("denied")}, Bucket: "apex-exports"})
	if _, err := a.ArchiveLeads(context.Background(), nil); err == nil {
		t.Fatal("expected upload error")
	}
}
