// Package exporter starts an RDS snapshot export to S3 for each snapshot
// notification it receives.
//
// Callers are expected to deliver only notifications for snapshots that should
// be exported. When DB_NAME is configured the handler additionally skips
// snapshots whose identifier does not contain it.
package exporter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/models"
)

// Exporter starts export tasks
type Exporter interface {
	StartExport(ctx context.Context, req *models.ExportRequest) (*models.ExportTaskResult, error)
}

// BucketVerifier checks that an export destination exists
type BucketVerifier interface {
	CheckBucket(ctx context.Context, bucket string) error
}

// Auditor records actions taken by the handler
type Auditor interface {
	Record(ctx context.Context, record *models.AuditRecord) error
}

// Handler handles snapshot export events
type Handler struct {
	cfg      *config.ExporterConfig
	exporter Exporter
	buckets  BucketVerifier
	audit    Auditor
	logger   *logrus.Entry
	now      func() time.Time
}

// Option customizes a Handler
type Option func(*Handler)

// WithBucketVerifier enables the destination bucket preflight
func WithBucketVerifier(v BucketVerifier) Option {
	return func(h *Handler) { h.buckets = v }
}

// WithAuditor enables audit records
func WithAuditor(a Auditor) Option {
	return func(h *Handler) { h.audit = a }
}

// NewHandler creates a handler. The configuration is captured once; role and
// key are still checked on every invocation.
func NewHandler(cfg *config.ExporterConfig, exporter Exporter, logger *logrus.Entry, opts ...Option) *Handler {
	h := &Handler{
		cfg:      cfg,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle parses the event, derives the export task identifier and starts the
// export. A nil result with a nil error means the snapshot was filtered out.
func (h *Handler) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (*models.ExportTaskResult, error) {
	// Tag every line with the invocation's request ID
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.WithField("aws_request_id", lc.AwsRequestID)
	}

	logger.Debug("EVENT INFO:")
	if raw, err := json.Marshal(event); err == nil {
		logger.Debug(string(raw))
	}

	// Parse the event body
	body, err := decodeBody(event)
	if err != nil {
		return nil, err
	}

	parsed, err := models.ParseExportEventBody(body)
	if err != nil {
		return nil, err
	}

	// Derive the export task identifier from the snapshot ARN
	req, err := models.NewExportRequest(parsed, h.cfg.RoleArn, h.cfg.KmsKeyID, h.cfg.S3Prefix)
	if err != nil {
		return nil, err
	}

	// Skip snapshots of other databases
	if !models.MatchesSourceFilter(req.ExportTaskIdentifier, h.cfg.DBName) {
		logger.WithFields(logrus.Fields{
			"export_task_identifier": req.ExportTaskIdentifier,
			"db_name":                h.cfg.DBName,
		}).Info("Snapshot does not belong to the configured database, skipping export")
		return nil, nil
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Optional destination preflight
	if h.cfg.VerifyBucket && h.buckets != nil {
		if err := h.buckets.CheckBucket(ctx, req.S3BucketName); err != nil {
			return nil, err
		}
	}

	// Start the export task
	result, err := h.exporter.StartExport(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("Snapshot export task started")
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export result: %w", err)
	}
	logger.Info(string(raw))

	// Audit failures are logged, not returned
	h.record(ctx, logger, result)

	return result, nil
}

func (h *Handler) record(ctx context.Context, logger *logrus.Entry, result *models.ExportTaskResult) {
	if h.audit == nil {
		return
	}

	rec := models.NewAuditRecord(models.HandlerSnapshotExporter, models.AuditActionExportStarted, result.ExportTaskIdentifier, h.now())
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		rec.RequestID = lc.AwsRequestID
	}
	rec.Detail = map[string]string{
		"source_arn":    result.SourceArn,
		"s3_bucket":     result.S3Bucket,
		"status":        result.Status,
		"snapshot_time": result.SnapshotTime,
	}

	if err := h.audit.Record(ctx, rec); err != nil {
		logger.WithError(err).Warn("Failed to write audit record")
	}
}

func decodeBody(event events.LambdaFunctionURLRequest) (string, error) {
	if !event.IsBase64Encoded {
		return event.Body, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return "", &models.MissingFieldError{Field: models.FieldSourceArn, Err: fmt.Errorf("decode base64 body: %w", err)}
	}
	return string(decoded), nil
}
