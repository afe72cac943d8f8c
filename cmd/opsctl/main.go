package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/logging"
)

var (
	region   string
	logLevel string
	jsonOut  bool

	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "opsctl",
	Short: "Run or invoke the snapshot export and instance power handlers",
	Long: `opsctl runs the automation handlers locally with the same environment
configuration as the deployed functions, or invokes the deployed functions
through the Lambda API when --function is given.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(os.Stderr, logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&region, "region", os.Getenv(config.EnvRegion),
		"AWS region (defaults to REGION or the SDK default chain)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level for local runs")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false,
		"Print results as JSON")
}

func loadAWS(ctx context.Context) (aws.Config, error) {
	return config.LoadAWSConfig(ctx, region)
}

func printResult(title string, v interface{}) error {
	if jsonOut {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	color.Green("✓ %s", title)
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Printf("  %s\n", data)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}
