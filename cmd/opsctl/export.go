package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/exporter"
	"nelson-infra-automation/internal/models"
	"nelson-infra-automation/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Start an RDS snapshot export to S3",
	Long: `Export builds the same event the snapshot exporter receives and either
handles it locally or sends it to the deployed function.

Local runs read SNAPSHOT_TASK_ROLE, SNAPSHOT_TASK_KEY and the optional
exporter settings from the environment.`,
	Example: `  opsctl export --source-arn arn:aws:rds:eu-west-1:123456789012:snapshot:rds:nightly-backup-01 --bucket my-bucket
  opsctl export --source-arn ... --bucket my-bucket --function prodRdsSnapshotExporterLambdaFunction`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportSourceArn string
	exportBucket    string
	exportFunction  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSourceArn, "source-arn", "",
		"Snapshot ARN to export (required)")
	exportCmd.Flags().StringVar(&exportBucket, "bucket", "",
		"Destination S3 bucket (required)")
	exportCmd.Flags().StringVar(&exportFunction, "function", "",
		"Invoke this deployed function instead of running locally")

	_ = exportCmd.MarkFlagRequired("source-arn")
	_ = exportCmd.MarkFlagRequired("bucket")
}

func buildExportEvent(sourceArn, bucket string) (events.LambdaFunctionURLRequest, error) {
	body, err := json.Marshal(models.ExportEventBody{
		SourceArn:    sourceArn,
		S3BucketName: bucket,
	})
	if err != nil {
		return events.LambdaFunctionURLRequest{}, fmt.Errorf("marshal event body: %w", err)
	}
	return events.LambdaFunctionURLRequest{Body: string(body)}, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	event, err := buildExportEvent(exportSourceArn, exportBucket)
	if err != nil {
		return err
	}

	awsCfg, err := loadAWS(ctx)
	if err != nil {
		return err
	}

	if exportFunction != "" {
		payload, err := services.NewFunctionInvoker(lambda.NewFromConfig(awsCfg)).Invoke(ctx, exportFunction, event)
		if err != nil {
			return err
		}
		var result *models.ExportTaskResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return fmt.Errorf("decode function response: %w", err)
		}
		return reportExport(result)
	}

	cfg := config.LoadExporterConfig()
	var opts []exporter.Option
	if cfg.VerifyBucket {
		opts = append(opts, exporter.WithBucketVerifier(services.NewBucketChecker(s3.NewFromConfig(awsCfg))))
	}
	if cfg.AuditTable != "" {
		opts = append(opts, exporter.WithAuditor(services.NewAuditStore(dynamodb.NewFromConfig(awsCfg), cfg.AuditTable)))
	}

	h := exporter.NewHandler(cfg, services.NewSnapshotExporter(rds.NewFromConfig(awsCfg)),
		logger.WithField("handler", models.HandlerSnapshotExporter), opts...)

	result, err := h.Handle(ctx, event)
	if err != nil {
		return err
	}
	return reportExport(result)
}

func reportExport(result *models.ExportTaskResult) error {
	if result == nil {
		color.Yellow("Snapshot skipped by the DB_NAME filter, no export started")
		return nil
	}
	fmt.Printf("Destination: %s\n", services.S3URI(result.S3Bucket, result.S3Prefix))
	return printResult(fmt.Sprintf("Export task %s started", result.ExportTaskIdentifier), result)
}
