package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Handler names recorded on audit records
const (
	HandlerSnapshotExporter = "snapshot_exporter"
	HandlerInstancePower    = "instance_power"
)

// Audit actions that are not power actions
const (
	AuditActionExportStarted = "export_started"
)

// AuditTTL is how long audit records are kept before DynamoDB expires them
const AuditTTL = 90 * 24 * time.Hour

// AuditRecord is one action taken by a handler, stored in the audit table
type AuditRecord struct {
	PK string `json:"PK" dynamodbav:"PK"` // HANDLER#{handler}
	SK string `json:"SK" dynamodbav:"SK"` // AUDIT#{created_at}#{audit_id}

	AuditID   string            `json:"audit_id" dynamodbav:"audit_id"`
	Handler   string            `json:"handler" dynamodbav:"handler"`
	Action    string            `json:"action" dynamodbav:"action"`
	Subject   string            `json:"subject" dynamodbav:"subject"` // export task ID or instance ID
	RequestID string            `json:"request_id,omitempty" dynamodbav:"request_id,omitempty"`
	Detail    map[string]string `json:"detail,omitempty" dynamodbav:"detail,omitempty"`
	CreatedAt time.Time         `json:"created_at" dynamodbav:"created_at"`
	TTL       int64             `json:"TTL" dynamodbav:"TTL"`
}

// NewAuditRecord creates a record with generated keys and expiry
func NewAuditRecord(handler, action, subject string, now time.Time) *AuditRecord {
	id := uuid.New().String()
	return &AuditRecord{
		PK:        CreateAuditPK(handler),
		SK:        CreateAuditSK(now, id),
		AuditID:   id,
		Handler:   handler,
		Action:    action,
		Subject:   subject,
		CreatedAt: now,
		TTL:       now.Add(AuditTTL).Unix(),
	}
}

// CreateAuditPK creates the partition key for a handler's audit records
func CreateAuditPK(handler string) string {
	return fmt.Sprintf("HANDLER#%s", handler)
}

// CreateAuditSK creates a sort key ordered by creation time
func CreateAuditSK(createdAt time.Time, auditID string) string {
	return fmt.Sprintf("AUDIT#%s#%s", createdAt.UTC().Format(time.RFC3339), auditID)
}
