package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/exporter"
	"nelson-infra-automation/internal/logging"
	"nelson-infra-automation/internal/models"
	"nelson-infra-automation/internal/services"
)

// Reused across warm starts
var handler *exporter.Handler

func init() {
	// Load configuration once per cold start
	cfg := config.LoadExporterConfig()
	logger := logging.Setup(cfg.LogLevel)

	// Initialize AWS config
	awsCfg, err := config.LoadAWSConfig(context.TODO(), "")
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	// Optional bucket preflight and audit trail
	var opts []exporter.Option
	if cfg.VerifyBucket {
		opts = append(opts, exporter.WithBucketVerifier(services.NewBucketChecker(s3.NewFromConfig(awsCfg))))
	}
	if cfg.AuditTable != "" {
		opts = append(opts, exporter.WithAuditor(services.NewAuditStore(dynamodb.NewFromConfig(awsCfg), cfg.AuditTable)))
	}

	handler = exporter.NewHandler(
		cfg,
		services.NewSnapshotExporter(rds.NewFromConfig(awsCfg)),
		logger.WithField("handler", models.HandlerSnapshotExporter),
		opts...,
	)
}

func handleRequest(ctx context.Context, event events.LambdaFunctionURLRequest) (*models.ExportTaskResult, error) {
	return handler.Handle(ctx, event)
}

func main() {
	lambda.Start(handleRequest)
}
