package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExportTaskIDPattern matches the trailing identifier token of a snapshot ARN.
// RDS export task identifiers must start with a lowercase letter and be at
// most 255 characters of lowercase letters, digits and hyphens.
const ExportTaskIDPattern = `[a-z][a-z0-9\-]{0,254}$`

var exportTaskIDRegex = regexp.MustCompile(ExportTaskIDPattern)

// Field names carried in the exporter event body
const (
	FieldSourceArn    = "Source ARN"
	FieldS3BucketName = "S3 Bucket Name"
)

// ExportEventBody is the JSON document carried in the exporter event body
type ExportEventBody struct {
	SourceArn    string `json:"Source ARN"`
	S3BucketName string `json:"S3 Bucket Name"`
}

// ParseExportEventBody decodes and validates the exporter event body. Keys are
// matched exactly, so "source arn" does not stand in for "Source ARN".
func ParseExportEventBody(body string) (*ExportEventBody, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, &MissingFieldError{Field: FieldSourceArn, Err: fmt.Errorf("decode event body: %w", err)}
	}

	sourceArn, err := stringField(fields, FieldSourceArn)
	if err != nil {
		return nil, err
	}
	bucket, err := stringField(fields, FieldS3BucketName)
	if err != nil {
		return nil, err
	}

	return &ExportEventBody{SourceArn: sourceArn, S3BucketName: bucket}, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", &MissingFieldError{Field: name}
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", &MissingFieldError{Field: name, Err: fmt.Errorf("decode %q: %w", name, err)}
	}
	if strings.TrimSpace(value) == "" {
		return "", &MissingFieldError{Field: name}
	}
	return value, nil
}

// ExtractExportTaskIdentifier returns the trailing identifier token of a source
// ARN. A single trailing newline is ignored.
func ExtractExportTaskIdentifier(sourceArn string) (string, error) {
	id := exportTaskIDRegex.FindString(strings.TrimSuffix(sourceArn, "\n"))
	if id == "" {
		return "", &PatternMatchError{Input: sourceArn, Pattern: ExportTaskIDPattern}
	}
	return id, nil
}

// ExportRequest holds everything needed to start one snapshot export task
type ExportRequest struct {
	ExportTaskIdentifier string `json:"export_task_identifier"`
	SourceArn            string `json:"source_arn"`
	S3BucketName         string `json:"s3_bucket_name"`
	S3Prefix             string `json:"s3_prefix,omitempty"`
	IamRoleArn           string `json:"iam_role_arn"`
	KmsKeyID             string `json:"kms_key_id"`
}

// NewExportRequest builds an export request for the given body, deriving the
// task identifier from the source ARN
func NewExportRequest(body *ExportEventBody, roleArn, kmsKeyID, prefix string) (*ExportRequest, error) {
	taskID, err := ExtractExportTaskIdentifier(body.SourceArn)
	if err != nil {
		return nil, err
	}

	return &ExportRequest{
		ExportTaskIdentifier: taskID,
		SourceArn:            body.SourceArn,
		S3BucketName:         body.S3BucketName,
		S3Prefix:             prefix,
		IamRoleArn:           roleArn,
		KmsKeyID:             kmsKeyID,
	}, nil
}

// Validate checks that the configuration-sourced fields are present
func (r *ExportRequest) Validate() error {
	if r.IamRoleArn == "" {
		return &ConfigurationError{Key: "SNAPSHOT_TASK_ROLE"}
	}
	if r.KmsKeyID == "" {
		return &ConfigurationError{Key: "SNAPSHOT_TASK_KEY"}
	}
	return nil
}

// ExportTaskResult is the StartExportTask response with its timestamps
// rendered as strings so it can be logged and returned as JSON
type ExportTaskResult struct {
	ExportTaskIdentifier string   `json:"ExportTaskIdentifier"`
	SourceArn            string   `json:"SourceArn"`
	SourceType           string   `json:"SourceType,omitempty"`
	S3Bucket             string   `json:"S3Bucket"`
	S3Prefix             string   `json:"S3Prefix,omitempty"`
	IamRoleArn           string   `json:"IamRoleArn"`
	KmsKeyID             string   `json:"KmsKeyId"`
	Status               string   `json:"Status"`
	ExportOnly           []string `json:"ExportOnly,omitempty"`
	SnapshotTime         string   `json:"SnapshotTime"`
	TaskStartTime        string   `json:"TaskStartTime,omitempty"`
	FailureCause         string   `json:"FailureCause,omitempty"`
	WarningMessage       string   `json:"WarningMessage,omitempty"`
}

// MatchesSourceFilter reports whether the snapshot identifier belongs to the
// given database name. An empty filter matches everything.
func MatchesSourceFilter(taskID, dbName string) bool {
	if dbName == "" {
		return true
	}
	return strings.Contains(taskID, strings.ToLower(dbName))
}
