// Package archive snapshots lead exports to S3 so the sales pipeline has
// durable point-in-time copies outside the primary store.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// ErrNotConfigured is returned when no bucket is set.
var ErrNotConfigured = errors.New("archive: bucket not configured")

// S3Client interface for S3 operations (allows mocking in tests)
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes lead CSV snapshots to S3.
type Archiver struct {
	s3     S3Client
	bucket string
	logger *logging.Logger
	now    func() time.Time
}

// ArchiverConfig holds configuration for the Archiver.
type ArchiverConfig struct {
	S3     S3Client
	Bucket string
	Logger *logging.Logger
}

// NewArchiver creates a new Archiver instance.
func NewArchiver(cfg ArchiverConfig) *Archiver {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Archiver{
		s3:     cfg.S3,
		bucket: cfg.Bucket,
		logger: cfg.Logger,
		now:    time.Now,
	}
}

// ArchiveLeads encodes the leads as CSV and uploads the snapshot. The
// object key embeds the UTC timestamp so snapshots never overwrite each
// other.
func (a *Archiver) ArchiveLeads(ctx context.Context, records []*leads.Lead) (string, error) {
	if a.s3 == nil || a.bucket == "" {
		return "", ErrNotConfigured
	}

	var buf bytes.Buffer
	if err := leads.WriteCSV(&buf, records); err != nil {
		return "", fmt.Errorf("archive: encode csv: %w", err)
	}

	key := fmt.Sprintf("leads/export-%s.csv", a.now().UTC().Format("2006-01-02T15-04-05Z"))
	_, err := a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: upload failed: %w", err)
	}

	a.logger.Info("lead snapshot archived", "bucket", a.bucket, "key", key, "leads", len(records))
	return key, nil
}
