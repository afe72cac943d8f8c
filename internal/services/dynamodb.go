package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"nelson-infra-automation/internal/models"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the audit store
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// AuditStore records handler actions in a DynamoDB table
type AuditStore struct {
	client    DynamoDBAPI
	tableName string
}

// NewAuditStore creates a new audit store for the given table
func NewAuditStore(client DynamoDBAPI, tableName string) *AuditStore {
	return &AuditStore{
		client:    client,
		tableName: tableName,
	}
}

// Record stores an audit record
func (s *AuditStore) Record(ctx context.Context, record *models.AuditRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put audit record: %w", err)
	}

	return nil
}

// ListRecent returns the newest audit records for a handler
func (s *AuditStore) ListRecent(ctx context.Context, handler string, limit int32) ([]models.AuditRecord, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.CreateAuditPK(handler)},
			":sk": &types.AttributeValueMemberS{Value: "AUDIT#"},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}

	var records []models.AuditRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit records: %w", err)
	}

	return records, nil
}

// TableName returns the configured table name
func (s *AuditStore) TableName() string {
	return s.tableName
}
