package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"nelson-infra-automation/internal/models"
)

// RDSAPI is the subset of the RDS client used to start snapshot exports
type RDSAPI interface {
	StartExportTask(ctx context.Context, params *rds.StartExportTaskInput, optFns ...func(*rds.Options)) (*rds.StartExportTaskOutput, error)
}

// SnapshotExporter starts RDS snapshot export tasks
type SnapshotExporter struct {
	client RDSAPI
}

// NewSnapshotExporter creates a snapshot exporter
func NewSnapshotExporter(client RDSAPI) *SnapshotExporter {
	return &SnapshotExporter{client: client}
}

// StartExport starts an export task and returns the normalized response
func (e *SnapshotExporter) StartExport(ctx context.Context, req *models.ExportRequest) (*models.ExportTaskResult, error) {
	input := &rds.StartExportTaskInput{
		ExportTaskIdentifier: aws.String(req.ExportTaskIdentifier),
		SourceArn:            aws.String(req.SourceArn),
		S3BucketName:         aws.String(req.S3BucketName),
		IamRoleArn:           aws.String(req.IamRoleArn),
		KmsKeyId:             aws.String(req.KmsKeyID),
	}
	if req.S3Prefix != "" {
		input.S3Prefix = aws.String(req.S3Prefix)
	}

	output, err := e.client.StartExportTask(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start export task %s: %w", req.ExportTaskIdentifier, err)
	}

	return NewExportTaskResult(output), nil
}

// NewExportTaskResult flattens a StartExportTask response, rendering its
// timestamps as RFC 3339 strings
func NewExportTaskResult(output *rds.StartExportTaskOutput) *models.ExportTaskResult {
	return &models.ExportTaskResult{
		ExportTaskIdentifier: aws.ToString(output.ExportTaskIdentifier),
		SourceArn:            aws.ToString(output.SourceArn),
		SourceType:           string(output.SourceType),
		S3Bucket:             aws.ToString(output.S3Bucket),
		S3Prefix:             aws.ToString(output.S3Prefix),
		IamRoleArn:           aws.ToString(output.IamRoleArn),
		KmsKeyID:             aws.ToString(output.KmsKeyId),
		Status:               aws.ToString(output.Status),
		ExportOnly:           output.ExportOnly,
		SnapshotTime:         formatTime(output.SnapshotTime),
		TaskStartTime:        formatTime(output.TaskStartTime),
		FailureCause:         aws.ToString(output.FailureCause),
		WarningMessage:       aws.ToString(output.WarningMessage),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
