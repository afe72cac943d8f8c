package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/viper"

	"nelson-infra-automation/internal/models"
)

// Environment variable names
const (
	EnvLogLevel           = "LOG_LEVEL"
	EnvAuditTable         = "AUDIT_TABLE"
	EnvSnapshotTaskRole   = "SNAPSHOT_TASK_ROLE"
	EnvSnapshotTaskKey    = "SNAPSHOT_TASK_KEY"
	EnvExportS3Prefix     = "EXPORT_S3_PREFIX"
	EnvDBName             = "DB_NAME"
	EnvExportVerifyBucket = "EXPORT_VERIFY_BUCKET"
	EnvRegion             = "REGION"
	EnvInstanceID         = "NPRICE_CORE_INSTANCE_ID"
	EnvSNSArn             = "SNS_ARN"
)

// DefaultLogLevel is used when LOG_LEVEL is unset
const DefaultLogLevel = "info"

// ExporterConfig configures the snapshot export handler
type ExporterConfig struct {
	LogLevel     string
	RoleArn      string
	KmsKeyID     string
	S3Prefix     string
	DBName       string
	VerifyBucket bool
	AuditTable   string
}

// PowerConfig configures the instance power handler
type PowerConfig struct {
	LogLevel    string
	Region      string
	InstanceIDs []string
	TopicArn    string
	AuditTable  string
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvLogLevel, DefaultLogLevel)
	return v
}

// LoadExporterConfig reads the exporter configuration from the environment.
// Role and key are not validated here; the handler checks them on every call.
func LoadExporterConfig() *ExporterConfig {
	v := newEnv()
	return &ExporterConfig{
		LogLevel:     v.GetString(EnvLogLevel),
		RoleArn:      strings.TrimSpace(v.GetString(EnvSnapshotTaskRole)),
		KmsKeyID:     strings.TrimSpace(v.GetString(EnvSnapshotTaskKey)),
		S3Prefix:     strings.Trim(v.GetString(EnvExportS3Prefix), "/ "),
		DBName:       strings.TrimSpace(v.GetString(EnvDBName)),
		VerifyBucket: v.GetBool(EnvExportVerifyBucket),
		AuditTable:   strings.TrimSpace(v.GetString(EnvAuditTable)),
	}
}

// LoadPowerConfig reads the power controller configuration from the environment
func LoadPowerConfig() (*PowerConfig, error) {
	v := newEnv()

	cfg := &PowerConfig{
		LogLevel:   v.GetString(EnvLogLevel),
		Region:     strings.TrimSpace(v.GetString(EnvRegion)),
		TopicArn:   strings.TrimSpace(v.GetString(EnvSNSArn)),
		AuditTable: strings.TrimSpace(v.GetString(EnvAuditTable)),
	}
	if id := strings.TrimSpace(v.GetString(EnvInstanceID)); id != "" {
		cfg.InstanceIDs = []string{id}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the target instance and topic are configured
func (c *PowerConfig) Validate() error {
	if len(c.InstanceIDs) == 0 {
		return &models.ConfigurationError{Key: EnvInstanceID}
	}
	if c.TopicArn == "" {
		return &models.ConfigurationError{Key: EnvSNSArn}
	}
	return nil
}

// LoadAWSConfig loads the default AWS configuration, overriding the region
// when one is given
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
