package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	log "github.com/sirupsen/logrus"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/logging"
	"nelson-infra-automation/internal/models"
	"nelson-infra-automation/internal/power"
	"nelson-infra-automation/internal/services"
)

// Reused across warm starts
var handler *power.Handler

func init() {
	// Load configuration once per cold start
	cfg, err := config.LoadPowerConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel)

	// Initialize AWS config
	awsCfg, err := config.LoadAWSConfig(context.TODO(), cfg.Region)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	// Initialize DynamoDB audit store when a table is configured
	var audit power.Auditor
	if cfg.AuditTable != "" {
		audit = services.NewAuditStore(dynamodb.NewFromConfig(awsCfg), cfg.AuditTable)
	}

	handler = power.NewHandler(
		cfg,
		services.NewInstanceController(ec2.NewFromConfig(awsCfg)),
		services.NewNotifier(sns.NewFromConfig(awsCfg)),
		audit,
		logger.WithFields(log.Fields{
			"handler":      models.HandlerInstancePower,
			"instance_ids": cfg.InstanceIDs,
		}),
	)
}

func handleRequest(ctx context.Context, event json.RawMessage) error {
	return handler.Handle(ctx, event)
}

func main() {
	lambda.Start(handleRequest)
}
