package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/models"
	"nelson-infra-automation/internal/services"
)

var auditCmd = &cobra.Command{
	Use:   "audit <handler>",
	Short: "List recent actions recorded by a handler",
	Example: `  opsctl audit snapshot_exporter --table automation-audit
  opsctl audit instance_power --limit 5`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{models.HandlerSnapshotExporter, models.HandlerInstancePower},
	RunE:      runAudit,
}

var (
	auditTable string
	auditLimit int32
)

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditTable, "table", os.Getenv(config.EnvAuditTable),
		"Audit table name (defaults to AUDIT_TABLE)")
	auditCmd.Flags().Int32Var(&auditLimit, "limit", 20,
		"Maximum number of records")
}

func runAudit(cmd *cobra.Command, args []string) error {
	if auditTable == "" {
		return &models.ConfigurationError{Key: config.EnvAuditTable}
	}

	ctx := context.Background()

	// Initialize AWS config
	awsCfg, err := loadAWS(ctx)
	if err != nil {
		return err
	}

	// Query newest records first
	store := services.NewAuditStore(dynamodb.NewFromConfig(awsCfg), auditTable)
	records, err := store.ListRecent(ctx, args[0], auditLimit)
	if err != nil {
		return err
	}

	if jsonOut {
		return printResult("", records)
	}

	if len(records) == 0 {
		color.Yellow("No audit records for %s in %s", args[0], store.TableName())
		return nil
	}
	color.Cyan("%d audit records for %s in %s", len(records), args[0], store.TableName())
	for _, r := range records {
		fmt.Printf("%s  %-26s %s\n", r.CreatedAt.UTC().Format("2006-01-02 15:04:05"), r.Action, r.Subject)
	}
	return nil
}
