package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/spf13/cobra"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/models"
	"nelson-infra-automation/internal/power"
	"nelson-infra-automation/internal/services"
)

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Start the configured instance or alert on its state",
	Long: `Power runs the instance power controller once. Local runs read
NPRICE_CORE_INSTANCE_ID and SNS_ARN from the environment.`,
	Example: `  opsctl power
  opsctl power --function prodNpriceCoreStartFunction`,
	Args: cobra.NoArgs,
	RunE: runPower,
}

var powerFunction string

func init() {
	rootCmd.AddCommand(powerCmd)

	powerCmd.Flags().StringVar(&powerFunction, "function", "",
		"Invoke this deployed function instead of running locally")
}

func runPower(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	awsCfg, err := loadAWS(ctx)
	if err != nil {
		return err
	}

	if powerFunction != "" {
		if _, err := services.NewFunctionInvoker(lambda.NewFromConfig(awsCfg)).Invoke(ctx, powerFunction, map[string]string{}); err != nil {
			return err
		}
		return printResult("Function "+powerFunction+" completed", nil)
	}

	cfg, err := config.LoadPowerConfig()
	if err != nil {
		return err
	}
	var audit power.Auditor
	if cfg.AuditTable != "" {
		audit = services.NewAuditStore(dynamodb.NewFromConfig(awsCfg), cfg.AuditTable)
	}

	h := power.NewHandler(cfg,
		services.NewInstanceController(ec2.NewFromConfig(awsCfg)),
		services.NewNotifier(sns.NewFromConfig(awsCfg)),
		audit,
		logger.WithField("handler", models.HandlerInstancePower))

	if err := h.Handle(ctx, json.RawMessage(`{}`)); err != nil {
		return err
	}
	return printResult("Instance power check completed", nil)
}
